// internal/platform/di/secret_provider_sm.go
package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// secretRefPrefix marks a config value that is a Secret Manager reference
// instead of the literal secret: "sm://<secretId>" or "sm://<secretId>@<version>".
const secretRefPrefix = "sm://"

type secretProviderSM struct {
	sm        *secretmanager.Client
	projectID string
}

// Resolve returns v unchanged unless it is an "sm://" reference, in which
// case the referenced secret version is fetched and its payload returned.
func (p *secretProviderSM) Resolve(ctx context.Context, v string) (string, error) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, secretRefPrefix) {
		return v, nil
	}
	if p == nil || p.sm == nil {
		return "", errors.New("di: secret manager client not configured for " + v)
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("di: projectID is empty, cannot resolve " + v)
	}

	ref := strings.TrimPrefix(v, secretRefPrefix)
	secretID, version, ok := strings.Cut(ref, "@")
	if !ok || strings.TrimSpace(version) == "" {
		version = "latest"
	}
	secretID = strings.TrimSpace(secretID)
	if secretID == "" {
		return "", errors.New("di: empty secret id in " + v)
	}

	name := "projects/" + prj + "/secrets/" + secretID + "/versions/" + strings.TrimSpace(version)
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("di: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("di: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
