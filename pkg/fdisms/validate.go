package fdisms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	pathValidate     = "/api/v1/validate/msisdn"
	pathValidateBulk = "/api/v1/validate/msisdn/bulk"
)

type validateRequest struct {
	MSISDN      string `json:"msisdn"`
	CountryCode string `json:"countryCode"`
}

type validateBulkRequest struct {
	MSISDNList  []string `json:"msisdn_list"`
	CountryCode string   `json:"countryCode"`
}

// MSISDNValidation is the lookup verdict for one number.
type MSISDNValidation struct {
	Success     bool   `json:"success"`
	MSISDN      string `json:"msisdn,omitempty"`
	Valid       bool   `json:"valid"`
	CountryCode string `json:"countryCode,omitempty"`
	Network     string `json:"network,omitempty"`
	Message     string `json:"message,omitempty"`
}

// BulkMSISDNValidation carries verdicts for a batch lookup.
type BulkMSISDNValidation struct {
	Success bool               `json:"success"`
	Results []MSISDNValidation `json:"results,omitempty"`
	Message string             `json:"message,omitempty"`
}

// ValidateMSISDN checks one number against the lookup endpoint. countryCode
// is a two-letter ISO region code and is upper-cased before dispatch; the
// number itself is passed as given.
func (c *Client) ValidateMSISDN(ctx context.Context, msisdn, countryCode string) (*MSISDNValidation, error) {
	msisdn = strings.TrimSpace(msisdn)
	if msisdn == "" {
		return nil, errors.New("fdisms: msisdn is empty")
	}
	cc, err := normalizeCountryCode(countryCode)
	if err != nil {
		return nil, err
	}

	raw, err := c.authorized(ctx, http.MethodPost, pathValidate, validateRequest{MSISDN: msisdn, CountryCode: cc})
	if err != nil {
		return nil, err
	}
	var out MSISDNValidation
	if err := decode(raw, "validation", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateMSISDNBulk checks a batch of numbers in one request.
func (c *Client) ValidateMSISDNBulk(ctx context.Context, msisdns []string, countryCode string) (*BulkMSISDNValidation, error) {
	if len(msisdns) == 0 {
		return nil, errors.New("fdisms: msisdn list is empty")
	}
	list := make([]string, 0, len(msisdns))
	for i, msisdn := range msisdns {
		msisdn = strings.TrimSpace(msisdn)
		if msisdn == "" {
			return nil, fmt.Errorf("fdisms: msisdn %d is empty", i)
		}
		list = append(list, msisdn)
	}
	cc, err := normalizeCountryCode(countryCode)
	if err != nil {
		return nil, err
	}

	raw, err := c.authorized(ctx, http.MethodPost, pathValidateBulk, validateBulkRequest{MSISDNList: list, CountryCode: cc})
	if err != nil {
		return nil, err
	}
	var out BulkMSISDNValidation
	if err := decode(raw, "bulk validation", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func normalizeCountryCode(s string) (string, error) {
	cc := strings.ToUpper(strings.TrimSpace(s))
	if len(cc) != 2 {
		return "", fmt.Errorf("fdisms: country code %q is not a two-letter ISO code", s)
	}
	return cc, nil
}
