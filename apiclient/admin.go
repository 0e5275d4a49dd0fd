package apiclient

import (
	"context"
	"net/http"
	"time"
)

// User is one platform account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Roles     []string  `json:"roles,omitempty"`
	Disabled  bool      `json:"disabled,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Group is a named set of users sharing role grants.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Roles   []string `json:"roles,omitempty"`
	Members []string `json:"members,omitempty"`
}

// Role names a permission bundle.
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

// Invitation is a pending account invitation.
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// APIKey is a programmatic credential. Secret is populated only on creation.
type APIKey struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Prefix    string    `json:"prefix,omitempty"`
	Secret    string    `json:"secret,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	LastUsed  time.Time `json:"last_used,omitempty"`
}

// SSOPolicy controls single-sign-on enforcement for the tenant.
type SSOPolicy struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	AllowedDomains []string `json:"allowed_domains,omitempty"`
	EnforceForAll  bool     `json:"enforce_for_all,omitempty"`
}

// SafeMode reports whether the tenant rejects mutating operations.
type SafeMode struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

type userListEnvelope struct {
	Users []User `json:"users"`
}

type groupListEnvelope struct {
	Groups []Group `json:"groups"`
}

type roleListEnvelope struct {
	Roles []Role `json:"roles"`
}

type invitationListEnvelope struct {
	Invitations []Invitation `json:"invitations"`
}

type apiKeyListEnvelope struct {
	Keys []APIKey `json:"keys"`
}

// ListUsers returns the tenant's accounts.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var envelope userListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, c.url("api", "v1", "admin", "users"), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Users, nil
}

// CreateUser provisions an account directly, bypassing the invitation flow.
func (c *Client) CreateUser(ctx context.Context, user User) (User, error) {
	var out User
	err := c.doJSON(ctx, http.MethodPost, c.url("api", "v1", "admin", "users"), user, &out)
	return out, err
}

// UpdateUser updates an account's roles and disabled flag.
func (c *Client) UpdateUser(ctx context.Context, user User) (User, error) {
	var out User
	err := c.doJSON(ctx, http.MethodPut, c.url("api", "v1", "admin", "users", user.ID), user, &out)
	return out, err
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.url("api", "v1", "admin", "users", id), nil, nil)
}

// ListGroups returns the tenant's groups.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	var envelope groupListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, c.url("api", "v1", "admin", "groups"), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Groups, nil
}

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, group Group) (Group, error) {
	var out Group
	err := c.doJSON(ctx, http.MethodPost, c.url("api", "v1", "admin", "groups"), group, &out)
	return out, err
}

// DeleteGroup removes a group.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.url("api", "v1", "admin", "groups", id), nil, nil)
}

// ListRoles returns the tenant's roles.
func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var envelope roleListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, c.url("api", "v1", "admin", "roles"), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Roles, nil
}

// ListInvitations returns pending invitations.
func (c *Client) ListInvitations(ctx context.Context) ([]Invitation, error) {
	var envelope invitationListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, c.url("api", "v1", "admin", "invitations"), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Invitations, nil
}

// CreateInvitation invites an email address with the given roles.
func (c *Client) CreateInvitation(ctx context.Context, invitation Invitation) (Invitation, error) {
	var out Invitation
	err := c.doJSON(ctx, http.MethodPost, c.url("api", "v1", "admin", "invitations"), invitation, &out)
	return out, err
}

// RevokeInvitation cancels a pending invitation.
func (c *Client) RevokeInvitation(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.url("api", "v1", "admin", "invitations", id), nil, nil)
}

// ListAPIKeys returns the tenant's API keys (without secrets).
func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var envelope apiKeyListEnvelope
	if err := c.doJSON(ctx, http.MethodGet, c.url("api", "v1", "admin", "keys"), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Keys, nil
}

// CreateAPIKey creates a key. The response carries the secret exactly once.
func (c *Client) CreateAPIKey(ctx context.Context, name string) (APIKey, error) {
	var out APIKey
	err := c.doJSON(ctx, http.MethodPost, c.url("api", "v1", "admin", "keys"), APIKey{Name: name}, &out)
	return out, err
}

// RevokeAPIKey removes a key.
func (c *Client) RevokeAPIKey(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, c.url("api", "v1", "admin", "keys", id), nil, nil)
}

// GetSSOPolicy returns the tenant's single-sign-on policy.
func (c *Client) GetSSOPolicy(ctx context.Context) (SSOPolicy, error) {
	var out SSOPolicy
	err := c.doJSON(ctx, http.MethodGet, c.url("api", "v1", "admin", "sso"), nil, &out)
	return out, err
}

// SetSSOPolicy replaces the tenant's single-sign-on policy.
func (c *Client) SetSSOPolicy(ctx context.Context, policy SSOPolicy) (SSOPolicy, error) {
	var out SSOPolicy
	err := c.doJSON(ctx, http.MethodPut, c.url("api", "v1", "admin", "sso"), policy, &out)
	return out, err
}

// GetSafeMode reports the tenant's safe-mode switch.
func (c *Client) GetSafeMode(ctx context.Context) (SafeMode, error) {
	var out SafeMode
	err := c.doJSON(ctx, http.MethodGet, c.url("api", "v1", "admin", "safe-mode"), nil, &out)
	return out, err
}

// SetSafeMode toggles the tenant's safe-mode switch.
func (c *Client) SetSafeMode(ctx context.Context, mode SafeMode) (SafeMode, error) {
	var out SafeMode
	err := c.doJSON(ctx, http.MethodPut, c.url("api", "v1", "admin", "safe-mode"), mode, &out)
	return out, err
}
