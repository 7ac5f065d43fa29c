package cli

import (
	"context"
	"fmt"

	"smartmethods/archive"
	"smartmethods/bizerror"
	"smartmethods/client/es"
	"smartmethods/client/s3"
	"smartmethods/common"
	"smartmethods/config"
	"smartmethods/domain/draft"
	"smartmethods/domain/study"
	"smartmethods/domain/study/studyrest"
	"smartmethods/event"
	"smartmethods/indices"
	"smartmethods/indices/indexlog"
	"smartmethods/indices/search"
	"smartmethods/infra/metrics"
	"smartmethods/infra/ratelimit"
	"smartmethods/infra/tracing"
	"smartmethods/persistence"
	"smartmethods/profile"
	"smartmethods/servehttp"
	"smartmethods/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func buildServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the REST service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	common.ConfigureLog(cfg.Log.Level, gin.Mode() == gin.ReleaseMode)
	common.Log.Info("service start")

	closer, err := tracing.InitGlobalTracer(common.GetServiceName())
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer closer.Close()

	// create database (no conflict)
	if cfg.Database.DriverType == persistence.DriverMysql {
		if err := persistence.PrepareMysqlDatabase(cfg.Database.DriverArgs); err != nil {
			return fmt.Errorf("prepare database: %w", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: &cfg.Database}
	if err := ds.Start(); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer ds.Stop()

	// database migration (race condition)
	err = ds.GormDB(context.Background()).AutoMigrate(&study.Study{}, &event.EventRecord{}, &indexlog.IndexLogRecord{}, &profile.Profile{}).Error
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	persistence.ActiveDataSourceManager = ds

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)
	event.EventHandlers = append(event.EventHandlers, collector.HandleEvent)

	engine := servehttp.NewEngine(tracing.TracingIngress(), collector.Middleware(), bizerror.ErrorHandling())
	collector.RegisterMetricsEndpoint(engine)

	limiter := ratelimit.New(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	guards := []gin.HandlerFunc{session.IdentityFilter(), limiter.Middleware()}

	studyrest.RegisterStudiesRestAPI(engine, guards...)
	studyrest.RegisterTimeParsingsRestAPI(engine, guards...)
	draft.RegisterDraftsRestAPI(engine, guards...)
	profile.RegisterProfileRestAPI(engine, guards...)

	if cfg.OSS.Endpoint != "" {
		if err := s3.Bootstrap(cfg.OSS.Endpoint, cfg.OSS.AccessKey, cfg.OSS.SecretKey, cfg.OSS.Bucket); err != nil {
			return fmt.Errorf("bootstrap report bucket: %w", err)
		}
		event.EventHandlers = append(event.EventHandlers, archive.HandleEvent)
		archive.RegisterArchivesRestAPI(engine, guards...)
	} else {
		common.Log.Warn("oss endpoint is not configured, report archiving is disabled")
	}

	if cfg.Elasticsearch.URL != "" {
		if _, err := es.CreateClient(cfg.Elasticsearch.URL); err != nil {
			return fmt.Errorf("create elasticsearch client: %w", err)
		}
		robot := &session.Session{Identity: session.Identity{Name: "serve-robot"}, Context: context.Background()}
		if err := indices.EnsureStudyIndex(robot); err != nil {
			common.Log.Warnf("ensure study index: %v", err)
		}
		event.EventHandlers = append(event.EventHandlers, indices.IndexStudyEventHandle)
		indices.RegisterIndicesRestAPI(engine, guards...)
		search.RegisterSearchRestAPI(engine, guards...)

		c, err := indices.StartCron(cfg.Elasticsearch.IndexSyncSchedule)
		if err != nil {
			return fmt.Errorf("start index cron: %w", err)
		}
		defer c.Stop()
	} else {
		common.Log.Warn("elasticsearch url is not configured, study search is disabled")
	}

	return servehttp.StartHTTPServer(cfg.Server.Listen, engine)
}
