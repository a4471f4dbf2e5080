// Package datasourcetest provides an in-process data source server
// for testing. By default it returns a random value in [0, 1) for each
// requested channel, naming each series after its channel.
package datasourcetest

import (
	"context"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/julienschmidt/httprouter"
	"gopkg.in/errgo.v1"
	"gopkg.in/httprequest.v1"

	"github.com/rogpeppe/charter/datasource"
)

// Server is an in-process data source that serves random
// values unless batches have been queued with Push.
type Server struct {
	Addr string
	lis  net.Listener

	mu       sync.Mutex
	queue    []*datasource.Batch
	errMsg   string
	requests []string
}

var reqServer = &httprequest.Server{}

// NewServer starts a new server listening on the given address.
func NewServer(addr string) (*Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errgo.Mask(err)
	}
	srv := &Server{
		Addr: lis.Addr().String(),
		lis:  lis,
	}
	router := httprouter.New()
	for _, h := range reqServer.Handlers(srv.handler) {
		router.Handle(h.Method, h.Path, h.Handle)
	}
	go http.Serve(lis, router)
	return srv, nil
}

// Push queues a batch to be returned by a future request.
// Queued batches are returned in order, each once; when
// the queue is empty, random values are returned again.
func (srv *Server) Push(b *datasource.Batch) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.queue = append(srv.queue, b)
}

// SetError causes all requests to fail with the given
// message. If msg is empty, requests succeed again.
func (srv *Server) SetError(msg string) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.errMsg = msg
}

// Requests returns the channel selectors of all the
// requests made so far.
func (srv *Server) Requests() []string {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return append([]string(nil), srv.requests...)
}

// Close stops the server listening.
func (srv *Server) Close() {
	srv.lis.Close()
}

func (srv *Server) handler(p httprequest.Params) (handler, context.Context, error) {
	return handler{srv}, p.Context, nil
}

type handler struct {
	srv *Server
}

func (h handler) GetData(req *datasource.GetDataRequest) (*datasource.GetDataResponse, error) {
	srv := h.srv
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.requests = append(srv.requests, req.Channels)
	if srv.errMsg != "" {
		return nil, errgo.New(srv.errMsg)
	}
	if len(srv.queue) > 0 {
		b := srv.queue[0]
		srv.queue = srv.queue[1:]
		return (*datasource.GetDataResponse)(b), nil
	}
	channels := strings.Fields(req.Channels)
	resp := &datasource.GetDataResponse{
		Values: make([]float64, len(channels)),
		Names:  channels,
	}
	for i := range channels {
		resp.Values[i] = rand.Float64()
	}
	return resp, nil
}
