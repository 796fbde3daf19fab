package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "blobserve_active_sessions",
		Help: "Number of currently connected client sessions",
	})
	commandsServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blobserve_commands",
		Help: "Total number of protocol commands served, by verb",
	}, []string{"verb"})
	commandErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blobserve_command_errors",
		Help: "Total number of commands that failed and terminated their session",
	})
)

func init() {
	prometheus.MustRegister(sessionsActive)
	prometheus.MustRegister(commandsServed)
	prometheus.MustRegister(commandErrors)
}
