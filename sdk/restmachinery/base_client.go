package restmachinery

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/krancour/resman/sdk/meta"
	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// APIClientOptions encapsulates optional API client configuration.
type APIClientOptions struct {
	// AllowInsecureConnections indicates whether SSL-related errors should be
	// ignored when connecting to the API server.
	AllowInsecureConnections bool
	// CookieJar, when non-nil, is shared by every client built with these
	// options so that cookies set by one endpoint accompany calls to another.
	CookieJar http.CookieJar
}

// NewCookieJar returns a cookie jar suitable for sharing between clients via
// APIClientOptions.
func NewCookieJar() http.CookieJar {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New( // nolint: errcheck
		&cookiejar.Options{
			PublicSuffixList: publicsuffix.List,
		},
	)
	return jar
}

type BaseClient struct {
	APIAddress string
	APIToken   string
	HTTPClient *http.Client
}

func NewBaseClient(
	apiAddress string,
	apiToken string,
	opts *APIClientOptions,
) *BaseClient {
	if opts == nil {
		opts = &APIClientOptions{}
	}
	return &BaseClient{
		APIAddress: strings.TrimSuffix(apiAddress, "/"),
		APIToken:   apiToken,
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: opts.AllowInsecureConnections,
				},
			},
			Jar: opts.CookieJar,
		},
	}
}

func (b *BaseClient) BearerTokenAuthHeaders() map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", b.APIToken),
	}
}

// URL returns the absolute URL of the specified API path.
func (b *BaseClient) URL(path string) (*url.URL, error) {
	u, err := url.Parse(
		fmt.Sprintf("%s/%s", b.APIAddress, strings.TrimPrefix(path, "/")),
	)
	return u, errors.Wrapf(err, "error parsing URL for path %s", path)
}

// Cookie returns the value of the named cookie the HTTP client holds for the
// specified API path, or an empty string if there is no such cookie.
func (b *BaseClient) Cookie(path string, name string) string {
	if b.HTTPClient.Jar == nil {
		return ""
	}
	u, err := b.URL(path)
	if err != nil {
		return ""
	}
	for _, cookie := range b.HTTPClient.Jar.Cookies(u) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func (b *BaseClient) ExecuteRequest(
	ctx context.Context,
	req OutboundRequest,
) error {
	resp, err := b.SubmitRequest(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if req.RespObj != nil {
		respBodyBytes, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(err, "error reading response body")
		}
		if len(bytes.TrimSpace(respBodyBytes)) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBodyBytes, req.RespObj); err != nil {
			return errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return nil
}

func (b *BaseClient) SubmitRequest(
	ctx context.Context,
	req OutboundRequest,
) (*http.Response, error) {
	reqBodyReader, contentType, err := b.requestBody(req)
	if err != nil {
		return nil, err
	}

	u, err := b.URL(req.Path)
	if err != nil {
		return nil, err
	}
	r, err := http.NewRequestWithContext(ctx, req.Method, u.String(), reqBodyReader)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			req.Method,
			req.Path,
		)
	}
	if len(req.QueryParams) > 0 {
		q := r.URL.Query()
		for k, v := range req.QueryParams {
			if v != "" {
				q.Set(k, v)
			}
		}
		r.URL.RawQuery = q.Encode()
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	r.Header.Set("Accept", "application/json")
	for k, v := range req.AuthHeaders {
		r.Header.Add(k, v)
	}
	for k, v := range req.Headers {
		r.Header.Add(k, v)
	}

	resp, err := b.HTTPClient.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking API")
	}

	if (req.SuccessCode == 0 && (resp.StatusCode < 200 || resp.StatusCode > 299)) ||
		(req.SuccessCode != 0 && resp.StatusCode != req.SuccessCode) {
		defer resp.Body.Close()
		apiErr := &meta.ErrRejected{}
		// A body that isn't the expected {"message": ...} shape still counts as
		// a rejection; it just falls back to the generic message.
		if bodyBytes, err := ioutil.ReadAll(resp.Body); err == nil {
			_ = json.Unmarshal(bodyBytes, apiErr) // nolint: errcheck
		}
		apiErr.StatusCode = resp.StatusCode
		return nil, apiErr
	}
	return resp, nil
}

func (b *BaseClient) requestBody(
	req OutboundRequest,
) (io.Reader, string, error) {
	if len(req.FormFields) > 0 {
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for k, v := range req.FormFields {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", errors.Wrapf(err, "error writing form field %s", k)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", errors.Wrap(err, "error closing multipart body")
		}
		return buf, w.FormDataContentType(), nil
	}
	if req.ReqBodyObj == nil {
		return nil, "", nil
	}
	switch rb := req.ReqBodyObj.(type) {
	case []byte:
		return bytes.NewBuffer(rb), "application/json", nil
	default:
		reqBodyBytes, err := json.Marshal(req.ReqBodyObj)
		if err != nil {
			return nil, "", errors.Wrap(err, "error marshaling request body")
		}
		return bytes.NewBuffer(reqBodyBytes), "application/json", nil
	}
}
