package envoy

import (
	"fmt"
	"net/http"
	"time"
)

type OptionFunc func(*Client) error

// WithHTTPClient replaces the default client, which skips TLS verification
// because gateways ship with a self-signed certificate.
func WithHTTPClient(httpClient *http.Client) OptionFunc {
	return func(client *Client) error {
		if httpClient == nil {
			return fmt.Errorf("nil http client")
		}
		client.httpClient = httpClient
		return nil
	}
}

func WithNotification(notification Notification) OptionFunc {
	return func(client *Client) error {
		if notification == nil {
			notification = NilNotification
		}
		client.notification = notification
		return nil
	}
}

// WithClock sets the source of collector time.
func WithClock(now func() time.Time) OptionFunc {
	return func(client *Client) error {
		if now == nil {
			return fmt.Errorf("nil clock")
		}
		client.now = now
		return nil
	}
}

func WithReconciler(reconciler *Reconciler) OptionFunc {
	return func(client *Client) error {
		if reconciler == nil {
			return fmt.Errorf("nil reconciler")
		}
		client.reconciler = reconciler
		return nil
	}
}
