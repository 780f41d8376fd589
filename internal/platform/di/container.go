// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	httpin "digitalstore/internal/adapters/in/http"
	"digitalstore/internal/adapters/in/http/middleware"
	outdb "digitalstore/internal/adapters/out/db"
	gcso "digitalstore/internal/adapters/out/gcs"
	mailout "digitalstore/internal/adapters/out/mail"
	usecase "digitalstore/internal/application/usecase"
	accountdom "digitalstore/internal/domain/account"
	appcfg "digitalstore/internal/infra/config"
	"digitalstore/internal/infra/database"
)

// Container is the application DI container.
// Pure DI: build deps only. No routing branching, no reflection tricks.
type Container struct {
	Config *appcfg.Config

	// Clients (owned; Close-managed)
	DB            *database.DB
	GCS           *storage.Client
	FirebaseAuth  *middleware.FirebaseAuthClient
	SecretManager *secretmanager.Client

	// Repositories
	UserRepo     *outdb.UserRepositoryPG
	CategoryRepo *outdb.CategoryRepositoryPG
	ProductRepo  *outdb.ProductRepositoryPG
	CartRepo     *outdb.CartRepositoryPG
	OrderRepo    *outdb.OrderRepositoryPG

	// Usecases
	AccountUC  *usecase.AccountUsecase
	AuthUC     *usecase.AuthUsecase
	CatalogUC  *usecase.CatalogUsecase
	CartUC     *usecase.CartUsecase
	CheckoutUC *usecase.CheckoutUsecase
	OrderUC    *usecase.OrderUsecase
}

// NewContainer initializes the full dependency graph.
// PostgreSQL is strict (startup fails without it). Firebase Auth, GCS,
// Secret Manager and SendGrid are best-effort: a warning is logged and the
// dependent feature degrades (401s, no image upload, no mail).
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := appcfg.Load()
	c := &Container{Config: cfg}

	// Credentials file (optional; mainly for local dev). Without it the GCP
	// clients fall back to Application Default Credentials.
	var clientOpts []option.ClientOption
	if f := strings.TrimSpace(cfg.GCPCredentialsFile); f != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(f))
		log.Printf("[di] using credentials file for GCP clients")
	}

	// Secret Manager (best-effort; only needed for sm:// config refs)
	if smc, err := secretmanager.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[di] WARN: secret manager client unavailable: %v", err)
	} else {
		c.SecretManager = smc
	}
	secrets := &secretProviderSM{sm: c.SecretManager, projectID: cfg.GCPProjectID}

	var err error
	if cfg.DBPassword, err = secrets.Resolve(ctx, cfg.DBPassword); err != nil {
		return nil, fmt.Errorf("di: resolve db password: %w", err)
	}
	if cfg.SendGridAPIKey, err = secrets.Resolve(ctx, cfg.SendGridAPIKey); err != nil {
		log.Printf("[di] WARN: sendgrid key unresolved, mail disabled: %v", err)
		cfg.SendGridAPIKey = ""
	}
	if cfg.ActivationSecret, err = secrets.Resolve(ctx, cfg.ActivationSecret); err != nil {
		return nil, fmt.Errorf("di: resolve activation secret: %w", err)
	}
	if strings.TrimSpace(cfg.ActivationSecret) == "" {
		return nil, fmt.Errorf("di: ACTIVATION_SECRET is required")
	}

	// PostgreSQL (strict)
	c.DB, err = database.NewConnection(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
	if err != nil {
		return nil, err
	}

	// Firebase Auth (best-effort)
	if strings.TrimSpace(cfg.FirebaseProjectID) != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, clientOpts...)
		if err != nil {
			log.Printf("[di] WARN: firebase app init failed: %v", err)
		} else if auth, err := app.Auth(ctx); err != nil {
			log.Printf("[di] WARN: firebase auth init failed: %v", err)
		} else {
			c.FirebaseAuth = auth
		}
	} else {
		log.Printf("[di] WARN: FIREBASE_PROJECT_ID not set, requests run unauthenticated")
	}

	// GCS (best-effort)
	if gcs, err := storage.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[di] WARN: gcs client unavailable, image upload disabled: %v", err)
	} else {
		c.GCS = gcs
	}

	// Repositories
	c.UserRepo = outdb.NewUserRepositoryPG(c.DB.Client)
	c.CategoryRepo = outdb.NewCategoryRepositoryPG(c.DB.Client)
	c.ProductRepo = outdb.NewProductRepositoryPG(c.DB.Client)
	c.CartRepo = outdb.NewCartRepositoryPG(c.DB.Client)
	c.OrderRepo = outdb.NewOrderRepositoryPG(c.DB.Client)

	tx := outdb.NewTxManagerPG(c.DB.Client)
	tokens := accountdom.NewTokenService(cfg.ActivationSecret, cfg.ActivationTTL)

	var mailer usecase.EmailClient
	if strings.TrimSpace(cfg.SendGridAPIKey) != "" {
		mailer = mailout.NewSendGridClient(cfg.SendGridAPIKey, cfg.MailFromName)
	} else {
		log.Printf("[di] WARN: SENDGRID_API_KEY not set, activation links are logged instead of mailed")
	}

	var images usecase.ProductImageStore
	if c.GCS != nil && strings.TrimSpace(cfg.GCSBucket) != "" {
		images = gcso.NewProductImageStoreGCS(c.GCS, cfg.GCSBucket)
	}

	// Usecases
	c.AuthUC = usecase.NewAuthUsecase(c.UserRepo, tokens, tx)
	c.AccountUC = usecase.NewAccountUsecase(c.UserRepo, tokens, mailer, cfg.MailFrom, cfg.SelfBaseURL)
	c.CatalogUC = usecase.NewCatalogUsecase(c.CategoryRepo, c.ProductRepo, c.AuthUC, images)
	c.CartUC = usecase.NewCartUsecase(c.CartRepo, c.ProductRepo, tx)
	c.CheckoutUC = usecase.NewCheckoutUsecase(c.CartRepo, c.OrderRepo, c.ProductRepo, tx)
	c.OrderUC = usecase.NewOrderUsecase(c.OrderRepo)

	return c, nil
}

// RouterDeps assembles the inbound HTTP wiring.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		AccountUC:    c.AccountUC,
		AuthUC:       c.AuthUC,
		CatalogUC:    c.CatalogUC,
		CartUC:       c.CartUC,
		CheckoutUC:   c.CheckoutUC,
		OrderUC:      c.OrderUC,
		FirebaseAuth: c.FirebaseAuth,
		Users:        c.UserRepo,
	}
}

// Close releases owned clients.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.SecretManager != nil {
		_ = c.SecretManager.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
