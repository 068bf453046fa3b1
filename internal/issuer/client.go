package issuer

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
)

// HTTPClient calls the account issuer over HTTP/JSON.
type HTTPClient struct {
	http   *resty.Client
	logger *slog.Logger
}

type createResponse struct {
	Success   bool   `json:"success"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AccountID string `json:"accountId"`
	Message   string `json:"message,omitempty"`
}

type deleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// NewHTTPClient builds a client for the issuer at baseURL. The API key is
// optional; when set it is sent as a bearer token.
func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPClient{http: client, logger: logger}
}

func (c *HTTPClient) CreateAccount(ctx context.Context, req CreateRequest) (*IssuedAccount, error) {
	var out createResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/rpc/accounts/create")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService, "account issuer unreachable")
	}
	if resp.IsError() {
		c.logger.ErrorContext(ctx, "account issuer create failed",
			"status_code", resp.StatusCode(),
			"senior_id", req.SeniorID.String(),
		)
		return nil, dErrors.Newf(dErrors.CodeExternalService, "account issuer returned status %d", resp.StatusCode())
	}
	if !out.Success {
		return nil, dErrors.Newf(dErrors.CodeExternalService, "account issuer refused creation: %s", out.Message)
	}
	return &IssuedAccount{
		Email:     out.Email,
		Password:  out.Password,
		AccountID: id.AccountID(out.AccountID),
	}, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, seniorID id.SeniorID) error {
	var out deleteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"seniorId": seniorID.String()}).
		SetResult(&out).
		Post("/rpc/accounts/delete")
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeExternalService, "account issuer unreachable")
	}
	if resp.IsError() {
		c.logger.ErrorContext(ctx, "account issuer delete failed",
			"status_code", resp.StatusCode(),
			"senior_id", seniorID.String(),
		)
		return dErrors.Newf(dErrors.CodeExternalService, "account issuer returned status %d", resp.StatusCode())
	}
	if !out.Success {
		return dErrors.Newf(dErrors.CodeExternalService, "account issuer refused deletion: %s", out.Message)
	}
	return nil
}
