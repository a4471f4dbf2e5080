// Package datasource provides access to a remote process that
// produces batches of named sample values on request.
package datasource

import (
	"context"

	"github.com/juju/loggo"
	"go4.org/syncutil/singleflight"
	"gopkg.in/errgo.v1"
	"gopkg.in/httprequest.v1"
)

var logger = loggo.GetLogger("charter.datasource")

// ErrMalformed is the cause of errors returned by Batch.Validate.
var ErrMalformed = errgo.New("malformed batch")

// Source represents a source of sample batches.
type Source interface {
	// GetData returns the current value of each of the given
	// channels. The channels string holds space-separated
	// channel selectors.
	GetData(ctx context.Context, channels string) (*Batch, error)
}

// Batch holds one value for each of a set of named series.
// Values[i] is the value of the series named Names[i].
type Batch struct {
	Values []float64
	Names  []string
}

// Validate checks that the batch is well formed: it must hold
// the same number of values as names, and the names must be
// unique and not empty. The returned error has ErrMalformed
// as its cause.
func (b *Batch) Validate() error {
	if len(b.Values) != len(b.Names) {
		return errgo.WithCausef(nil, ErrMalformed, "%d values but %d names", len(b.Values), len(b.Names))
	}
	seen := make(map[string]bool, len(b.Names))
	for _, name := range b.Names {
		if name == "" {
			return errgo.WithCausef(nil, ErrMalformed, "empty series name")
		}
		if seen[name] {
			return errgo.WithCausef(nil, ErrMalformed, "duplicate series name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// GetDataRequest holds the RPC request for a batch.
type GetDataRequest struct {
	httprequest.Route `httprequest:"GET /getdata"`
	Channels          string `httprequest:"channels,form"`
}

// GetDataResponse holds the RPC response for a batch.
type GetDataResponse Batch

// Client is a Source that talks to a remote data source server.
// Concurrent calls for the same channels share a single
// round trip.
type Client struct {
	client httprequest.Client
	group  singleflight.Group
}

var _ Source = (*Client)(nil)

// NewClient returns a client that talks to the data source
// server at the given URL.
func NewClient(baseURL string) *Client {
	return &Client{
		client: httprequest.Client{
			BaseURL: baseURL,
		},
	}
}

// GetData implements Source.GetData.
func (c *Client) GetData(ctx context.Context, channels string) (*Batch, error) {
	v, err := c.group.Do(channels, func() (interface{}, error) {
		var resp GetDataResponse
		if err := c.client.Call(ctx, &GetDataRequest{
			Channels: channels,
		}, &resp); err != nil {
			return nil, errgo.Notef(err, "cannot get data for channels %q", channels)
		}
		logger.Tracef("got data %v for %q", resp.Values, channels)
		return (*Batch)(&resp), nil
	})
	if err != nil {
		return nil, errgo.Mask(err, errgo.Any)
	}
	// Each caller gets its own copy because the
	// result may be shared.
	b := v.(*Batch)
	return &Batch{
		Values: append([]float64(nil), b.Values...),
		Names:  append([]string(nil), b.Names...),
	}, nil
}
