package linkpreview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

type Preview struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	SiteName    string    `json:"site_name,omitempty"`
	LangGuess   string    `json:"lang_guess"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// ErrBlockedAddress is returned when a site resolves to a loopback, private or otherwise non-public address.
var ErrBlockedAddress = errors.New("linkpreview: address not allowed")

const (
	maxBodyBytes = 1 << 20
	maxRedirects = 3
)

type Fetcher struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
	backoff    time.Duration

	// allowPrivate lifts the public-address check; tests serve pages from 127.0.0.1.
	allowPrivate bool
}

// NewFetcher builds a fetcher whose connections only reach public addresses.
// Brand websites are user-supplied, so the check runs on the resolved IP rather than the hostname.
func NewFetcher(timeoutMS, maxRetries int, log *zap.Logger) *Fetcher {
	f := &Fetcher{
		log:        log,
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second, Control: f.checkAddress}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	f.httpClient = &http.Client{
		Timeout:   time.Duration(timeoutMS) * time.Millisecond,
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return f
}

func (f *Fetcher) checkAddress(_, address string, _ syscall.RawConn) error {
	if f.allowPrivate {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublic(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

var reservedNets = func() []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range []string{
		"0.0.0.0/8",     // this network
		"100.64.0.0/10", // carrier-grade NAT
		"192.0.0.0/24",  // IETF protocol assignments
		"198.18.0.0/15", // benchmarking
		"240.0.0.0/4",   // reserved, broadcast
	} {
		_, n, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}()

func isPublic(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return false
	}
	for _, n := range reservedNets {
		if n.Contains(ip) {
			return false
		}
	}
	return true
}

// Fetch downloads rawURL and reads its Open Graph tags, falling back to <title> and meta description.
// A scheme-less website ("acme.com") is fetched over https.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Preview, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * f.backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; MarketplaceLinkPreview/1.0)")
		req.Header.Set("Accept", "text/html")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if errors.Is(err, ErrBlockedAddress) {
				break
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
			// client errors will not fix themselves
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break
			}
			continue
		}

		doc, err = goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		f.log.Debug("link preview failed", zap.String("url", target), zap.Error(lastErr))
		return nil, lastErr
	}

	p := &Preview{
		URL:       target,
		FetchedAt: time.Now(),
	}

	p.Title = firstNonEmpty(meta(doc, "og:title"), strings.TrimSpace(doc.Find("title").First().Text()))
	p.Description = firstNonEmpty(meta(doc, "og:description"), meta(doc, "description"))
	p.SiteName = meta(doc, "og:site_name")
	if img := meta(doc, "og:image"); img != "" {
		p.Image = resolve(target, img)
	}
	if p.Title == "" {
		p.Title = hostOf(target)
	}

	if r := []rune(p.Description); len(r) > 300 {
		p.Description = string(r[:300])
	}

	p.LangGuess = guessLanguage(doc.Find("body").Text())

	return p, nil
}

func meta(doc *goquery.Document, name string) string {
	var v string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		prop, _ := s.Attr("property")
		n, _ := s.Attr("name")
		if strings.EqualFold(prop, name) || strings.EqualFold(n, name) {
			v = strings.TrimSpace(s.AttrOr("content", ""))
			return v == ""
		}
		return true
	})
	return v
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", raw)
	}
	return u.String(), nil
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return u.Host
	}
	return raw
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func guessLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return "unknown"
	}

	cyrillicCount := 0
	latinCount := 0
	arabicCount := 0
	cjkCount := 0
	devanagariCount := 0
	totalLetters := 0

	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		totalLetters++
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillicCount++
		case unicode.Is(unicode.Latin, r):
			latinCount++
		case unicode.Is(unicode.Arabic, r):
			arabicCount++
		case unicode.Is(unicode.Devanagari, r):
			devanagariCount++
		case unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			cjkCount++
		}
	}

	if totalLetters == 0 {
		return "unknown"
	}

	pct := func(n int) float64 { return float64(n) / float64(totalLetters) }

	switch {
	case pct(cyrillicCount) >= 0.3:
		return "ru"
	case pct(arabicCount) >= 0.3:
		return "ar"
	case pct(devanagariCount) >= 0.3:
		return "hi"
	case pct(cjkCount) >= 0.3:
		return "zh"
	case pct(latinCount) >= 0.3:
		return "en"
	default:
		return "other"
	}
}
