// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/frostbyte73/core"
	"github.com/rs/cors"
	"github.com/urfave/negroni/v3"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/livekit-server-sdk/pkg/config"
	"github.com/livekit/livekit-server-sdk/pkg/telemetry/prometheus"
	"github.com/livekit/livekit-server-sdk/pkg/utils"
	"github.com/livekit/livekit-server-sdk/pkg/webhook"
)

const (
	// AnyEvent registers a handler for every event
	AnyEvent = "*"

	shutdownTimeout = 5 * time.Second
)

// WebhookHandler processes an accepted delivery. Returning an error fails the request
// with 500 so the sender retries.
type WebhookHandler func(ctx context.Context, d *webhook.Delivery) error

// WebhookServer accepts webhook deliveries over HTTP and dispatches them by event name.
type WebhookServer struct {
	conf     *config.Config
	receiver *webhook.Receiver
	replay   webhook.ReplayStore

	lock        sync.RWMutex
	handlers    map[string][]WebhookHandler
	httpServers []*http.Server
	promServer  *http.Server
	addrs       []net.Addr
	forceStop   bool

	running atomic.Bool
	started core.Fuse
	done    core.Fuse
}

func NewWebhookServer(conf *config.Config, receiver *webhook.Receiver, replay webhook.ReplayStore) *WebhookServer {
	if replay == nil {
		replay = webhook.NoopReplayStore{}
	}
	return &WebhookServer{
		conf:     conf,
		receiver: receiver,
		replay:   replay,
		handlers: make(map[string][]WebhookHandler),
	}
}

// OnEvent adds a handler for the named event. An empty name or AnyEvent matches everything.
func (s *WebhookServer) OnEvent(event string, handler WebhookHandler) {
	if event == "" {
		event = AnyEvent
	}
	s.lock.Lock()
	s.handlers[event] = append(s.handlers[event], handler)
	s.lock.Unlock()
}

func (s *WebhookServer) handlersFor(event string) []WebhookHandler {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := make([]WebhookHandler, 0, len(s.handlers[event])+len(s.handlers[AnyEvent]))
	out = append(out, s.handlers[event]...)
	return append(out, s.handlers[AnyEvent]...)
}

// Handler returns the full middleware chain serving the webhook path.
func (s *WebhookServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.conf.WebHook.Path, s)
	mux.HandleFunc("/", s.healthCheck)

	n := negroni.New()
	// always the first
	n.Use(negroni.NewRecovery())
	n.Use(negroni.HandlerFunc(RemoveDoubleSlashes))
	n.Use(cors.AllowAll())
	n.UseHandler(mux)
	return n
}

func (s *WebhookServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sw := utils.NewStopwatch()
	l := utils.GetLogger(r.Context()).WithValues("remote", GetClientIP(r))
	ctx := utils.ContextWithLogger(r.Context(), l)
	r = r.WithContext(ctx)

	if r.Method != http.MethodPost {
		s.reject(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
		return
	}

	d, err := s.receiver.ReceiveRequest(r, s.conf.WebHook.SkipAuth)
	sw.Mark("receive")
	if err != nil {
		s.reject(w, r, HTTPStatus(err), err)
		return
	}

	if d.Grants != nil && d.ReplayKey != "" {
		if err := s.replay.MarkUsed(ctx, d.ReplayKey, d.Grants.ExpiresAt); err != nil {
			s.reject(w, r, HTTPStatus(err), err, "event", d.Event.Event)
			return
		}
		sw.Mark("replay")
	}

	for _, h := range s.handlersFor(d.Event.Event) {
		if err := h(ctx, d); err != nil {
			s.reject(w, r, http.StatusInternalServerError, err, "event", d.Event.Event)
			return
		}
	}
	sw.Mark("dispatch")

	prometheus.WebhookReceived(d.Event.Event, sw.Total())
	l.Debugw("webhook received",
		"event", d.Event.Event,
		"id", d.Event.Id,
		"room", d.Event.Room.GetName(),
		"laps", sw.Laps(),
	)
	w.WriteHeader(http.StatusOK)
}

func (s *WebhookServer) reject(w http.ResponseWriter, r *http.Request, status int, err error, keysAndValues ...interface{}) {
	prometheus.WebhookRejected(errorReason(err))
	handleError(w, r, status, err, keysAndValues...)
}

func (s *WebhookServer) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *WebhookServer) IsRunning() bool {
	return s.running.Load()
}

// Ready is closed once the server is listening.
func (s *WebhookServer) Ready() <-chan struct{} {
	return s.started.Watch()
}

// Addrs returns the bound listener addresses, empty before Ready.
func (s *WebhookServer) Addrs() []net.Addr {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.addrs
}

// Start listens on every bind address and blocks until Stop is called or a listener fails.
func (s *WebhookServer) Start() error {
	if s.done.IsBroken() || !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	addresses := s.conf.BindAddresses
	if len(addresses) == 0 {
		addresses = []string{""}
	}

	var listeners []net.Listener
	closeAll := func() {
		for _, ln := range listeners {
			_ = ln.Close()
		}
	}
	for _, addr := range addresses {
		ln, err := net.Listen("tcp", net.JoinHostPort(addr, strconv.Itoa(int(s.conf.Port))))
		if err != nil {
			closeAll()
			return err
		}
		listeners = append(listeners, ln)
	}

	var promListener net.Listener
	if s.conf.PrometheusPort > 0 {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.conf.PrometheusPort))
		if err != nil {
			closeAll()
			return err
		}
		promListener = ln
	}

	handler := s.Handler()
	var eg errgroup.Group
	s.lock.Lock()
	for _, ln := range listeners {
		ln := ln
		srv := &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		s.httpServers = append(s.httpServers, srv)
		s.addrs = append(s.addrs, ln.Addr())
		eg.Go(func() error {
			return srv.Serve(ln)
		})
	}
	if promListener != nil {
		s.promServer = &http.Server{Handler: prometheus.Handler()}
		eg.Go(func() error {
			return s.promServer.Serve(promListener)
		})
	}
	s.lock.Unlock()

	logger.Infow("starting webhook server",
		"addresses", s.Addrs(),
		"path", s.conf.WebHook.Path,
		"replayProtection", s.conf.WebHook.ReplayProtection,
		"skipAuth", s.conf.WebHook.SkipAuth,
	)
	s.started.Break()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- eg.Wait()
	}()

	var err error
	select {
	case <-s.done.Watch():
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}

	s.shutdown()
	logger.Infow("webhook server stopped")
	return err
}

// Stop ends Start. With force, open connections are closed without waiting.
func (s *WebhookServer) Stop(force bool) {
	s.lock.Lock()
	s.forceStop = force
	s.lock.Unlock()
	s.done.Break()
}

func (s *WebhookServer) shutdown() {
	s.lock.RLock()
	servers := append([]*http.Server{}, s.httpServers...)
	if s.promServer != nil {
		servers = append(servers, s.promServer)
	}
	force := s.forceStop
	s.lock.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if force {
			_ = srv.Close()
		} else {
			_ = srv.Shutdown(ctx)
		}
	}
}
