package persistence_test

import (
	"context"
	"smartmethods/persistence"
	"smartmethods/testinfra"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
)

type sample struct {
	ID   uint64 `gorm:"primary_key"`
	Name string
}

func TestGormTracing(t *testing.T) {
	RegisterTestingT(t)

	tracer := mocktracer.New()
	opentracing.SetGlobalTracer(tracer)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	t.Run("gorm tracing should be ignored when parent span not found", func(t *testing.T) {
		testDatabase := testinfra.StartTestDatabase("persistence")
		defer testinfra.StopTestDatabase(testDatabase)
		Expect(testDatabase.DS.GormDB(context.Background()).AutoMigrate(&sample{}).Error).To(BeNil())
		tracer.Reset()

		r := []sample{}
		Expect(testDatabase.DS.GormDB(context.Background()).Find(&r).Error).To(BeNil())
		Expect(len(r)).To(BeZero())
		Expect(len(tracer.FinishedSpans())).To(Equal(0))
	})

	t.Run("gorm tracing should be work with parent span", func(t *testing.T) {
		testDatabase := testinfra.StartTestDatabase("persistence")
		defer testinfra.StopTestDatabase(testDatabase)
		Expect(testDatabase.DS.GormDB(context.Background()).AutoMigrate(&sample{}).Error).To(BeNil())
		tracer.Reset()

		clientSpan := tracer.StartSpan("client")
		ctx := opentracing.ContextWithSpan(context.Background(), clientSpan)

		r := []sample{}
		Expect(testDatabase.DS.GormDB(ctx).Find(&r).Error).To(BeNil())
		clientSpan.Finish()

		spans := tracer.FinishedSpans()
		Expect(len(spans)).To(Equal(2))
		s0 := spans[1]
		Expect(s0.OperationName).To(Equal("client"))
		Expect(s0.ParentID).To(BeZero())

		s1 := spans[0]
		Expect(s1.OperationName).To(Equal("sql"))
		Expect(s1.ParentID).To(Equal(s0.SpanContext.SpanID))
		Expect(s1.SpanContext.TraceID).To(Equal(s0.SpanContext.TraceID))
	})
}

func TestParseDatabaseConfigFromEnv(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should default to a local sqlite file", func(t *testing.T) {
		t.Setenv("DB_DRIVER_TYPE", "")
		t.Setenv("DB_DRIVER_ARGS", "")
		c, err := persistence.ParseDatabaseConfigFromEnv(nil)
		Expect(err).To(BeNil())
		Expect(*c).To(Equal(persistence.DatabaseConfig{DriverType: "sqlite", DriverArgs: "smartmethods.db"}))
	})

	t.Run("should let environment override the base config", func(t *testing.T) {
		t.Setenv("DB_DRIVER_TYPE", "mysql")
		t.Setenv("DB_DRIVER_ARGS", "root:root@(127.0.0.1:3306)/sm")
		c, err := persistence.ParseDatabaseConfigFromEnv(&persistence.DatabaseConfig{DriverType: "sqlite", DriverArgs: "a.db"})
		Expect(err).To(BeNil())
		Expect(*c).To(Equal(persistence.DatabaseConfig{DriverType: "mysql", DriverArgs: "root:root@(127.0.0.1:3306)/sm"}))
	})

	t.Run("should reject unknown drivers and mysql without arguments", func(t *testing.T) {
		t.Setenv("DB_DRIVER_TYPE", "oracle")
		t.Setenv("DB_DRIVER_ARGS", "")
		_, err := persistence.ParseDatabaseConfigFromEnv(nil)
		Expect(err).To(Equal(persistence.ErrUnsupportedDriver))

		t.Setenv("DB_DRIVER_TYPE", "mysql")
		_, err = persistence.ParseDatabaseConfigFromEnv(nil)
		Expect(err).ToNot(BeNil())
	})
}
