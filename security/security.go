// Package security is the client for the console's Security API: user
// directories, the users within them, and tenants.
package security

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/consoleops/go-admin-client/apiclient"
	"github.com/consoleops/go-admin-client/apierror"
)

// TenantStatus represents the lifecycle state of a tenant.
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

// UserDirectory is a realm users are authenticated against, e.g. an internal
// directory or an external LDAP directory.
type UserDirectory struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// User is a principal within a user directory.
type User struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	UserDirectoryID string     `json:"userDirectoryId"`
	Name            string     `json:"name,omitempty"`
	Email           string     `json:"email,omitempty"`
	PhoneNumber     string     `json:"phoneNumber,omitempty"`
	Expired         bool       `json:"expired,omitempty"`
	Locked          bool       `json:"locked,omitempty"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
}

// Tenant is an organisation the console's data is partitioned by.
type Tenant struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status TenantStatus `json:"status"`
}

// Client provides access to the Security API.
type Client struct {
	api *apiclient.Client
}

// NewClient creates a Security API client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// GetUserDirectories retrieves all user directories.
func (c *Client) GetUserDirectories(ctx context.Context) ([]UserDirectory, error) {
	var directories []UserDirectory
	if err := c.api.Get(ctx, "/userDirectories", &directories); err != nil {
		return nil, errors.Wrap(err, "[GetUserDirectories]")
	}
	return directories, nil
}

// GetUsers retrieves the users within a user directory.
func (c *Client) GetUsers(ctx context.Context, userDirectoryID string) ([]User, error) {
	var users []User
	path := "/userDirectories/" + url.PathEscape(userDirectoryID) + "/users"
	if err := c.api.Get(ctx, path, &users); err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, &UserDirectoryNotFoundError{UserDirectoryID: userDirectoryID}
		}
		return nil, errors.Wrap(err, "[GetUsers]")
	}
	return users, nil
}

// GetUser retrieves a single user by directory and username.
func (c *Client) GetUser(ctx context.Context, userDirectoryID, username string) (*User, error) {
	var user User
	path := "/userDirectories/" + url.PathEscape(userDirectoryID) + "/users/" + url.PathEscape(username)
	if err := c.api.Get(ctx, path, &user); err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, &UserNotFoundError{Username: username}
		}
		return nil, errors.Wrap(err, "[GetUser]")
	}
	return &user, nil
}

// GetTenants retrieves all tenants.
func (c *Client) GetTenants(ctx context.Context) ([]Tenant, error) {
	var tenants []Tenant
	if err := c.api.Get(ctx, "/tenants", &tenants); err != nil {
		return nil, errors.Wrap(err, "[GetTenants]")
	}
	return tenants, nil
}

// GetTenant retrieves a single tenant by ID.
func (c *Client) GetTenant(ctx context.Context, tenantID string) (*Tenant, error) {
	var tenant Tenant
	if err := c.api.Get(ctx, "/tenants/"+url.PathEscape(tenantID), &tenant); err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, &TenantNotFoundError{TenantID: tenantID}
		}
		return nil, errors.Wrap(err, "[GetTenant]")
	}
	return &tenant, nil
}
