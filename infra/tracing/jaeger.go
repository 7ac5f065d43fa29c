package tracing

import (
	"io"

	"smartmethods/common"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type logrusJaegerLogger struct{}

func (logrusJaegerLogger) Error(msg string) {
	common.Log.Error(msg)
}

func (logrusJaegerLogger) Infof(msg string, args ...interface{}) {
	common.Log.Infof(msg, args...)
}

// InitGlobalTracer installs a jaeger tracer configured by the JAEGER_* environment variables.
// With JAEGER_DISABLED=true the returned tracer is a no-op.
func InitGlobalTracer(serviceName string) (io.Closer, error) {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	if cfg.Sampler.Type == "" {
		cfg.Sampler.Type = jaeger.SamplerTypeConst
		cfg.Sampler.Param = 1
	}

	tracer, closer, err := cfg.NewTracer(jaegercfg.Logger(logrusJaegerLogger{}))
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
