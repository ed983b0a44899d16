package apiclient

import (
	"net/http"
	"net/url"

	"github.com/repospector/repospector/shared/api"
	"github.com/repospector/repospector/shared/domain"
)

// ListInspections fetches the full list for the caller, or for owner when
// it is set (admin view). Filtering happens on the caller's side.
func (c *APIClient) ListInspections(r *http.Request, owner string) ([]domain.Inspection, error) {
	path := "/inspections"
	if owner != "" {
		path += "?" + url.Values{"userId": {owner}}.Encode()
	}

	resp, err := c.do(r.Context(), http.MethodGet, path, nil, r.Cookies()...)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var items []domain.Inspection
	if err := decode(resp, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *APIClient) GetInspection(r *http.Request, id string) (domain.Inspection, error) {
	var inspection domain.Inspection
	resp, err := c.do(r.Context(), http.MethodGet, "/inspections/"+url.PathEscape(id), nil, r.Cookies()...)
	if err != nil {
		return inspection, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return inspection, responseError(resp)
	}
	err = decode(resp, &inspection)
	return inspection, err
}

func (c *APIClient) DeleteInspection(r *http.Request, id string) error {
	resp, err := c.do(r.Context(), http.MethodDelete, "/inspections/"+url.PathEscape(id), nil, r.Cookies()...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

func (c *APIClient) Info(r *http.Request) (api.InfoResponse, error) {
	var info api.InfoResponse
	resp, err := c.do(r.Context(), http.MethodGet, "/info", nil, r.Cookies()...)
	if err != nil {
		return info, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return info, responseError(resp)
	}
	err = decode(resp, &info)
	return info, err
}
