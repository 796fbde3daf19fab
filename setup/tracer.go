package setup

import (
	"github.com/opentracing/opentracing-go"
	zipkinot "github.com/openzipkin-contrib/zipkin-go-opentracing"
	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/reporter/http"
	"github.com/sirupsen/logrus"
)

// setTracer installs the global opentracing tracer. With no collector URL
// the default no-op tracer stays in place and spans cost nothing.
func setTracer(ownURL string, zipkinURL string) {
	if zipkinURL == "" {
		return
	}

	reporter := zipkinhttp.NewReporter(zipkinURL)

	endpoint, err := zipkin.NewEndpoint("blobserve", ownURL)
	if err != nil {
		logrus.WithError(err).Fatalln("couldn't create zipkin endpoint")
	}

	nativeTracer, err := zipkin.NewTracer(reporter, zipkin.WithLocalEndpoint(endpoint))
	if err != nil {
		logrus.WithError(err).Fatalln("couldn't start tracer")
	}

	opentracing.SetGlobalTracer(zipkinot.Wrap(nativeTracer))
	logrus.WithFields(logrus.Fields{"url": zipkinURL}).Info("started tracer")
}
