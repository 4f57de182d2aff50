package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"courier-tracker/internal/core/logger"
	"courier-tracker/internal/core/proxy"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// BrowserTableKeySource renders the tracking page in headless Chromium and
// reads the table key from the rendered DOM, or from the checkpoints request
// the page fires on its own.
type BrowserTableKeySource struct {
	baseURL string
	proxy   proxy.Settings
	timeout time.Duration
	logger  *zap.Logger
}

// NewBrowserTableKeySource creates a new BrowserTableKeySource.
func NewBrowserTableKeySource(baseURL string, proxySettings proxy.Settings, timeout time.Duration) *BrowserTableKeySource {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &BrowserTableKeySource{
		baseURL: strings.TrimRight(baseURL, "/"),
		proxy:   proxySettings,
		timeout: timeout,
		logger:  logger.Named("browser"),
	}
}

// TableKey implements ports.TableKeySource.
func (s *BrowserTableKeySource) TableKey(ctx context.Context, courierSlug, docID, cookieHeader string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	proxyAddr, stop, err := s.startProxy(ctx)
	if err != nil {
		return "", err
	}
	defer stop()

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)
	if proxyAddr != "" {
		l = l.Proxy(proxyAddr)
	}

	s.logger.Debug("Launching browser", zap.Bool("proxy_enabled", proxyAddr != ""))

	u, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}

	if cookieHeader != "" {
		if _, err := page.SetExtraHeaders([]string{"Cookie", cookieHeader}); err != nil {
			return "", fmt.Errorf("failed to set session cookie: %w", err)
		}
	}

	found := make(chan string, 1)
	router := page.HijackRequests()
	defer router.Stop()

	if err := router.Add("*get_checkpoints_table*", "", func(h *rod.Hijack) {
		if m := tableKeyPattern.FindStringSubmatch(h.Request.URL().String()); m != nil {
			select {
			case found <- m[1]:
			default:
			}
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	}); err != nil {
		return "", fmt.Errorf("failed to hijack checkpoints request: %w", err)
	}
	go router.Run()

	if err := page.Navigate(s.pageURL(courierSlug, docID)); err != nil {
		return "", fmt.Errorf("failed to open tracking page: %w", err)
	}

	if err := page.WaitLoad(); err == nil {
		if doc, err := page.HTML(); err == nil {
			if key, ok := extractTableKey(doc); ok {
				return key, nil
			}
		}
	}

	select {
	case key := <-found:
		return key, nil
	case <-ctx.Done():
		return "", fmt.Errorf("timeout waiting for table key: %w", ctx.Err())
	}
}

func (s *BrowserTableKeySource) pageURL(courierSlug, docID string) string {
	return fmt.Sprintf("%s/track-and-trace/%s/%s", s.baseURL, url.PathEscape(courierSlug), url.PathEscape(docID))
}

// startProxy starts a local forwarder when the upstream proxy needs
// credentials, since Chromium cannot authenticate to it directly.
func (s *BrowserTableKeySource) startProxy(ctx context.Context) (string, func(), error) {
	noop := func() {}

	if !s.proxy.HasProxy() {
		return "", noop, nil
	}
	if !s.proxy.HasCredentials() {
		return s.proxy.HostPort(), noop, nil
	}

	var allowed []string
	if u, err := url.Parse(s.baseURL); err == nil && u.Hostname() != "" {
		allowed = append(allowed, u.Hostname())
	}

	fwd, err := proxy.NewForwardingProxy(s.proxy.URL().String(), allowed...)
	if err != nil {
		return "", noop, fmt.Errorf("failed to create proxy forwarder: %w", err)
	}
	addr, err := fwd.Start(ctx)
	if err != nil {
		return "", noop, fmt.Errorf("failed to start proxy forwarder: %w", err)
	}
	return addr, func() { _ = fwd.Stop() }, nil
}
