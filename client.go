// Package feign is a small declarative-style HTTP client pipeline. A request
// template is filled in by an Encoder, executed by a Client and its response
// body handed to a Decoder, or to an ErrorDecoder when the status is not 2xx.
//
// JSON support lives in the codec/json package.
package feign

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quic-go/quic-go/http3"
	"github.com/tomruk/feign-go/internal/sync"
	"github.com/tomruk/feign-go/typedesc"
	"github.com/tomruk/yeast"
)

type ClientConfig struct {
	// Additional HTTP headers sent with every request.
	// Can be used for authentication.
	RequestHeader http.Header

	// If set, every request carries a unique ID in this header. The ID is
	// also the context of the request's debug lines.
	RequestIDHeader string

	// Custom HTTP transport to use.
	//
	// If this is a http.Transport it will be cloned and TLSClientConfig
	// (if set) will be applied to the clone.
	HTTPTransport http.RoundTripper

	// Use HTTP/3 over QUIC. HTTPTransport is ignored when set.
	HTTP3 bool

	TLSClientConfig *tls.Config

	// Overall timeout of a request, including reading the body.
	//
	// Default value is: 0 (no timeout, use the context instead)
	Timeout time.Duration

	// Default value is: DefaultEncoder()
	Encoder Encoder

	// Default value is: DefaultDecoder()
	Decoder Decoder

	// Default value is: DefaultErrorDecoder()
	ErrorDecoder ErrorDecoder

	// Default value is: NewNoopDebugger()
	Debugger Debugger
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client

	requestHeader   http.Header
	requestIDHeader string

	encoder      Encoder
	decoder      Decoder
	errorDecoder ErrorDecoder

	debug        Debugger
	debugContext string

	yeaster   *yeast.Yeaster
	yeasterMu sync.Mutex
}

func NewClient(baseURL string, config *ClientConfig) (*Client, error) {
	if config == nil {
		config = new(ClientConfig)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("feign: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("feign: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL:         u,
		httpClient:      newHTTPClient(config),
		requestHeader:   config.RequestHeader.Clone(),
		requestIDHeader: config.RequestIDHeader,
		encoder:         config.Encoder,
		decoder:         config.Decoder,
		errorDecoder:    config.ErrorDecoder,
		debug:           config.Debugger,
		yeaster:         yeast.New(),
	}

	if c.encoder == nil {
		c.encoder = DefaultEncoder()
	}
	if c.decoder == nil {
		c.decoder = DefaultDecoder()
	}
	if c.errorDecoder == nil {
		c.errorDecoder = DefaultErrorDecoder()
	}
	if c.debug == nil {
		c.debug = NewNoopDebugger()
	}
	c.debugContext = "[feign/Client " + u.Host + "]"
	return c, nil
}

func newHTTPClient(config *ClientConfig) *http.Client {
	var t http.RoundTripper
	switch {
	case config.HTTP3:
		t = &http3.RoundTripper{TLSClientConfig: config.TLSClientConfig}
	case config.HTTPTransport == nil:
		// Clone the transport, so that we don't change the default TLS config.
		// If we're unable to clone the transport, leave it as it is.
		ht, ok := http.DefaultTransport.(*http.Transport)
		if ok {
			ht = ht.Clone()
			if config.TLSClientConfig != nil {
				ht.TLSClientConfig = config.TLSClientConfig
			}
			t = ht
		} else {
			t = http.DefaultTransport
		}
	default:
		t = config.HTTPTransport
		ht, ok := t.(*http.Transport)
		if ok {
			ht = ht.Clone()
			if config.TLSClientConfig != nil {
				ht.TLSClientConfig = config.TLSClientConfig
			}
			t = ht
		}
	}

	return &http.Client{
		Transport: t,
		Timeout:   config.Timeout,
	}
}

func (c *Client) nextID() string {
	c.yeasterMu.Lock()
	defer c.yeasterMu.Unlock()
	return c.yeaster.Yeast()
}

func (c *Client) newRequest(ctx context.Context, t *RequestTemplate) (*http.Request, error) {
	req, err := t.Request(ctx, c.baseURL)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept-Encoding", acceptEncoding)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "*/*")
	}
	for k, v := range c.requestHeader {
		if _, ok := t.Header[k]; ok {
			continue
		}
		for _, s := range v {
			req.Header.Add(k, s)
		}
	}
	return req, nil
}

// Execute performs the request described by t and reads the whole body. The
// body of a 204 response or of a HEAD request is absent.
func (c *Client) Execute(ctx context.Context, t *RequestTemplate) (*Response, error) {
	id := c.nextID()
	debug := c.debug.WithContext(c.debugContext + " " + id)

	req, err := c.newRequest(ctx, t)
	if err != nil {
		return nil, wrapInternalError(err)
	}
	if c.requestIDHeader != "" {
		req.Header.Set(c.requestIDHeader, id)
	}

	debug.Log(req.Method, req.URL.String())
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		debug.Log("request failed", err)
		return nil, err
	}
	defer resp.Body.Close()

	header := resp.Header.Clone()
	var body []byte
	if resp.StatusCode != http.StatusNoContent && req.Method != http.MethodHead {
		body, err = readBody(resp)
		if err != nil {
			debug.Log("reading body failed", err)
			return nil, err
		}
		if isGzip(header) {
			header.Del("Content-Encoding")
			header.Set("Content-Length", strconv.Itoa(len(body)))
		}
	}

	debug.Log(StatusText(resp.StatusCode), len(body), time.Since(start))

	r := NewResponse(resp.StatusCode, reasonPhrase(resp), header, body)
	r.Request = req
	return r, nil
}

func reasonPhrase(resp *http.Response) string {
	return strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
}

// Call encodes payload (unless it is nil) into t, executes the request and
// decodes the response as target. Non-2xx responses are handed to the
// ErrorDecoder.
func (c *Client) Call(ctx context.Context, t *RequestTemplate, payload any, target typedesc.Descriptor) (any, error) {
	if payload != nil {
		if err := c.encoder.Encode(payload, t); err != nil {
			return nil, fmt.Errorf("feign: encoding %s: %w", t.MethodKey(), err)
		}
	}

	resp, err := c.Execute(ctx, t)
	if err != nil {
		return nil, err
	}
	if !resp.isSuccess() {
		return nil, c.errorDecoder.Decode(t.MethodKey(), resp)
	}
	return c.decoder.Decode(resp, target)
}

// CallAs is Call with the target derived from T.
func CallAs[T any](ctx context.Context, c *Client, t *RequestTemplate, payload any) (T, error) {
	var zero T
	target := typedesc.Of[T]()
	v, err := c.Call(ctx, t, payload, target)
	if err != nil || v == nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("feign: decoder returned %T for %s", v, target)
	}
	return out, nil
}

// Close releases idle connections and, for HTTP/3, the QUIC transport.
func (c *Client) Close() error {
	if rt, ok := c.httpClient.Transport.(*http3.RoundTripper); ok {
		return rt.Close()
	}
	c.httpClient.CloseIdleConnections()
	return nil
}
