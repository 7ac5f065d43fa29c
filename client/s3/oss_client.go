package s3

import (
	"errors"
	"io"

	"smartmethods/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

var (
	ReportBucket     *oss.Bucket
	GetObjectFunc    func(string, *session.Session, ...oss.Option) (io.ReadCloser, error)
	PutObjectFunc    func(string, io.Reader, *session.Session, ...oss.Option) error
	DeleteObjectFunc func(string, *session.Session) error

	ErrNoSuchKey = errors.New("no such object")
)

func Bootstrap(endpoint, accessKey, secretKey, bucketName string) error {
	var err error
	ReportBucket, err = BuildBucket(endpoint, accessKey, secretKey, bucketName)
	if err != nil {
		return err
	}

	GetObjectFunc = GetObject
	PutObjectFunc = PutObject
	DeleteObjectFunc = DeleteObject
	return nil
}

func BuildBucket(endpoint, accessKey, secretKey, bucketName string) (*oss.Bucket, error) {
	// endpoint http://oss-cn-hangzhou.aliyuncs.com
	cli, err := oss.New(endpoint, accessKey, secretKey, oss.HTTPClient(nil))
	if err != nil {
		return nil, err
	}

	bucket, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

func startSpan(operation, key string, s *session.Session) opentracing.Span {
	if s == nil || s.Context == nil {
		return nil
	}
	parentSpan := opentracing.SpanFromContext(s.Context)
	if parentSpan == nil {
		return nil
	}
	sp := parentSpan.Tracer().StartSpan(operation, opentracing.ChildOf(parentSpan.Context()))
	sp.SetTag("object-key", key)
	return sp
}

func finishSpan(sp opentracing.Span, err error) {
	if sp == nil {
		return
	}
	ext.Error.Set(sp, err != nil)
	sp.Finish()
}

// GetObject returns ErrNoSuchKey when the object does not exist.
func GetObject(key string, s *session.Session, opts ...oss.Option) (io.ReadCloser, error) {
	sp := startSpan("get-object", key, s)
	r, err := ReportBucket.GetObject(key, opts...)
	var svcErr oss.ServiceError
	if errors.As(err, &svcErr) && svcErr.Code == "NoSuchKey" {
		err = ErrNoSuchKey
	}
	finishSpan(sp, err)
	return r, err
}

func PutObject(key string, r io.Reader, s *session.Session, opts ...oss.Option) error {
	sp := startSpan("put-object", key, s)
	err := ReportBucket.PutObject(key, r, opts...)
	finishSpan(sp, err)
	return err
}

func DeleteObject(key string, s *session.Session) error {
	sp := startSpan("delete-object", key, s)
	err := ReportBucket.DeleteObject(key)
	finishSpan(sp, err)
	return err
}
