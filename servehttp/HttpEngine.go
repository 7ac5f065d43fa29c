package servehttp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"smartmethods/common"

	"github.com/gin-gonic/gin"
)

const ShutdownTimeout = 3 * time.Second

// NewEngine returns a gin engine answering the service name on the root path.
func NewEngine(middleWares ...gin.HandlerFunc) *gin.Engine {
	engine := gin.Default()
	engine.Use(middleWares...)
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})
	return engine
}

// StartHTTPServer serves until SIGINT or SIGTERM is received.
func StartHTTPServer(addr string, handler http.Handler) error {
	// kill (no param) default send syscall.SIGTERM
	// kill -2 send syscall.SIGINT
	// kill -9 send syscall.SIGKILL, can't be caught
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, addr, handler, nil)
}

// Serve serves until ctx is done then shuts down gracefully, ready receives the bound address.
func Serve(ctx context.Context, addr string, handler http.Handler, ready chan<- net.Addr) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: handler}

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(listener)
	}()
	common.Log.Infof("http server is listening on %s", listener.Addr())
	if ready != nil {
		ready <- listener.Addr()
	}

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}
	common.Log.Infof("[QUIT] shutdown signal has been received, the service will exit in %s", ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-served; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	common.Log.Info("[QUIT] http server is shutdown gracefully")
	return nil
}
