package envoy

import (
	"context"
	"time"

	"github.com/hashicorp/mdns"
)

const discoveryService = "_enphase-envoy._tcp"

// Discover browses mDNS for a gateway and returns the first IPv4 address
// that answers. It returns "" without an error when nothing answers before
// ctx is done.
func Discover(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", nil
	}
	entries := make(chan *mdns.ServiceEntry, 16)
	params := mdns.DefaultParams(discoveryService)
	params.Entries = entries
	params.DisableIPv6 = true
	if deadline, ok := ctx.Deadline(); ok {
		params.Timeout = time.Until(deadline)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- mdns.Query(params)
		close(entries)
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return "", <-errCh
			}
			// look through the answers, pick something IPv4
			if entry.AddrV4 != nil {
				return entry.AddrV4.String(), nil
			}
		case <-ctx.Done():
			return "", nil
		}
	}
}
