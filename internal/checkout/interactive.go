package checkout

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"arenax-client/internal/logger"

	"go.uber.org/zap"
)

// Interactive is the CLI stand-in for the hosted widget: Load probes the
// script URL, Open walks the operator through the hosted checkout and reads
// the confirmation values back. Tests use a stub Collaborator instead.
type Interactive struct {
	scriptURL  string
	httpClient *http.Client
	in         *bufio.Reader
	out        io.Writer
}

// NewInteractive builds an Interactive collaborator. An empty scriptURL
// falls back to DefaultScriptURL.
func NewInteractive(scriptURL string, in io.Reader, out io.Writer) *Interactive {
	if scriptURL == "" {
		scriptURL = DefaultScriptURL
	}
	return &Interactive{
		scriptURL: scriptURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Load checks that the checkout script is reachable. Any failure wraps
// ErrUnavailable so it is never confused with a backend error.
func (i *Interactive) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.scriptURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		logger.L().Error("checkout script unreachable", zap.String("url", i.scriptURL), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		logger.L().Error("checkout script returned error", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: script returned status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Open prints the checkout details and blocks until the operator pastes the
// confirmation values or submits an empty order id to dismiss.
func (i *Interactive) Open(ctx context.Context, opts Options) (*Result, error) {
	fmt.Fprintf(i.out, "\n%s — %s\n", opts.Name, opts.Description)
	fmt.Fprintf(i.out, "Order %s: %s %s (minor units)\n", opts.OrderID, opts.Amount, opts.Currency)
	fmt.Fprintf(i.out, "Complete the payment with key %s, then paste the confirmation below.\n", opts.Key)
	fmt.Fprintf(i.out, "Press enter on an empty line to cancel.\n")

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := i.collect()
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ErrDismissed
	case o := <-done:
		return o.res, o.err
	}
}

func (i *Interactive) collect() (*Result, error) {
	orderID, err := i.prompt("order id")
	if err != nil || orderID == "" {
		return nil, ErrDismissed
	}
	paymentID, err := i.prompt("payment id")
	if err != nil || paymentID == "" {
		return nil, ErrDismissed
	}
	signature, err := i.prompt("signature")
	if err != nil || signature == "" {
		return nil, ErrDismissed
	}

	return &Result{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: signature,
	}, nil
}

func (i *Interactive) prompt(label string) (string, error) {
	fmt.Fprintf(i.out, "%s: ", label)
	line, err := i.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
