package ckan

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/c360studio/fdpharvest/profile"
	"github.com/c360studio/fdpharvest/publish"
)

// SinkConfig holds package defaults added on create and update.
type SinkConfig struct {
	// OwnerOrg is the organization new packages belong to.
	OwnerOrg string

	// HarvestSource is recorded in the harvest_source extra field.
	HarvestSource string
}

// PackageSink creates or updates packages through package_show,
// package_create and package_update.
type PackageSink struct {
	client *Client
	config SinkConfig
}

// NewPackageSink wraps client.
func NewPackageSink(client *Client, config SinkConfig) *PackageSink {
	return &PackageSink{client: client, config: config}
}

// Publish stores pkg under the name derived from guid and returns the
// package id.
func (s *PackageSink) Publish(ctx context.Context, guid string, pkg profile.Package) (string, error) {
	name := publish.PackageName(guid)
	body := maps.Clone(pkg)
	body["name"] = name
	body["harvest_guid"] = guid
	if s.config.OwnerOrg != "" {
		body["owner_org"] = s.config.OwnerOrg
	}
	if s.config.HarvestSource != "" {
		body["harvest_source"] = s.config.HarvestSource
	}

	var existing struct {
		ID string `json:"id"`
	}
	err := s.client.Action(ctx, "package_show", map[string]string{"id": name}, &existing)
	action := "package_update"
	switch {
	case errors.Is(err, ErrNotFound):
		action = "package_create"
	case err != nil:
		return "", fmt.Errorf("look up package %s: %w", name, err)
	default:
		body["id"] = existing.ID
	}

	var stored struct {
		ID string `json:"id"`
	}
	if err := s.client.Action(ctx, action, body, &stored); err != nil {
		return "", err
	}
	if stored.ID == "" {
		return name, nil
	}
	return stored.ID, nil
}
