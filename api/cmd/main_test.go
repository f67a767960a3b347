package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeServer struct {
	addr string

	listenErr   error
	shutdownErr error

	listenCalled   bool
	shutdownCalled bool
	closeCalled    bool
}

func (f *fakeServer) ListenAndServe() error {
	f.listenCalled = true
	return f.listenErr
}
func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdownCalled = true
	return f.shutdownErr
}
func (f *fakeServer) Close() error {
	f.closeCalled = true
	return nil
}
func (f *fakeServer) Addr() string { return f.addr }

func signalled() chan os.Signal {
	ch := make(chan os.Signal, 1)
	ch <- os.Interrupt
	return ch
}

func TestRun_BootstrapFail_Returns1(t *testing.T) {
	build := func() (httpServer, func(), error) {
		return nil, nil, errors.New("boom")
	}
	assert.Equal(t, 1, Run(build, make(chan os.Signal, 1), zerolog.Nop()))
}

func TestRun_OnSignal_ShutdownAndReturn0(t *testing.T) {
	fs := &fakeServer{addr: ":0", listenErr: http.ErrServerClosed}

	cleanupCalled := false
	build := func() (httpServer, func(), error) {
		return fs, func() { cleanupCalled = true }, nil
	}

	assert.Equal(t, 0, Run(build, signalled(), zerolog.Nop()))
	assert.True(t, fs.listenCalled)
	assert.True(t, fs.shutdownCalled)
	assert.False(t, fs.closeCalled, "Close only runs when Shutdown fails")
	assert.True(t, cleanupCalled)
}

func TestRun_OnServerCrash_Return1(t *testing.T) {
	fs := &fakeServer{addr: ":0", listenErr: errors.New("address in use")}

	cleanupCalled := false
	build := func() (httpServer, func(), error) {
		return fs, func() { cleanupCalled = true }, nil
	}

	assert.Equal(t, 1, Run(build, make(chan os.Signal, 1), zerolog.Nop()))
	assert.False(t, fs.shutdownCalled)
	assert.True(t, cleanupCalled)
}

func TestRun_ShutdownFail_ForcesClose(t *testing.T) {
	fs := &fakeServer{
		addr:        ":0",
		listenErr:   http.ErrServerClosed,
		shutdownErr: errors.New("shutdown failed"),
	}
	build := func() (httpServer, func(), error) {
		return fs, func() {}, nil
	}

	_ = Run(build, signalled(), zerolog.Nop())
	assert.True(t, fs.shutdownCalled)
	assert.True(t, fs.closeCalled)
}
