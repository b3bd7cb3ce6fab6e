// Package codes is the client for the console's Codes API: reference code
// categories and the codes within them.
package codes

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/consoleops/go-admin-client/apiclient"
	"github.com/consoleops/go-admin-client/apierror"
)

// CodeCategory groups a set of related codes, e.g. countries or languages.
type CodeCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Data        string    `json:"data,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
}

// Code is a single entry within a code category.
type Code struct {
	ID             string `json:"id"`
	CodeCategoryID string `json:"codeCategoryId"`
	Name           string `json:"name"`
	Value          string `json:"value"`
}

// Client provides access to the Codes API.
type Client struct {
	api *apiclient.Client
}

// NewClient creates a Codes API client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// GetCodeCategories retrieves all code categories.
func (c *Client) GetCodeCategories(ctx context.Context) ([]CodeCategory, error) {
	var categories []CodeCategory
	if err := c.api.Get(ctx, "/codeCategories", &categories); err != nil {
		return nil, errors.Wrap(err, "[GetCodeCategories]")
	}
	return categories, nil
}

// GetCodeCategory retrieves a single code category by ID.
func (c *Client) GetCodeCategory(ctx context.Context, codeCategoryID string) (*CodeCategory, error) {
	var category CodeCategory
	err := c.api.Get(ctx, "/codeCategories/"+url.PathEscape(codeCategoryID), &category)
	if err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, &CodeCategoryNotFoundError{CodeCategoryID: codeCategoryID}
		}
		return nil, errors.Wrap(err, "[GetCodeCategory]")
	}
	return &category, nil
}

// CreateCodeCategory creates a new code category.
func (c *Client) CreateCodeCategory(ctx context.Context, category CodeCategory) error {
	err := c.api.Post(ctx, "/codeCategories", category, nil)
	if err != nil {
		if errors.Is(err, apierror.ErrConflict) {
			return &DuplicateCodeCategoryError{CodeCategoryID: category.ID}
		}
		return errors.Wrap(err, "[CreateCodeCategory]")
	}
	return nil
}

// GetCodes retrieves the codes within a category.
func (c *Client) GetCodes(ctx context.Context, codeCategoryID string) ([]Code, error) {
	var result []Code
	path := "/codeCategories/" + url.PathEscape(codeCategoryID) + "/codes"
	if err := c.api.Get(ctx, path, &result); err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, &CodeCategoryNotFoundError{CodeCategoryID: codeCategoryID}
		}
		return nil, errors.Wrap(err, "[GetCodes]")
	}
	return result, nil
}

// GetCode retrieves a single code by its category and ID.
func (c *Client) GetCode(ctx context.Context, codeCategoryID, codeID string) (*Code, error) {
	var code Code
	path := "/codeCategories/" + url.PathEscape(codeCategoryID) + "/codes/" + url.PathEscape(codeID)
	if err := c.api.Get(ctx, path, &code); err != nil {
		if errors.Is(err, apierror.ErrNotFound) {
			return nil, &CodeNotFoundError{CodeCategoryID: codeCategoryID, CodeID: codeID}
		}
		return nil, errors.Wrap(err, "[GetCode]")
	}
	return &code, nil
}
