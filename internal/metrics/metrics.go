package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	workerRunning = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "warden",
		Name:      "worker_running",
		Help:      "Whether a worker process is currently tracked (1=running, 0=not running).",
	}, []string{"worker"})

	workerLaunches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warden",
		Name:      "worker_launches_total",
		Help:      "Total number of worker processes launched.",
	}, []string{"worker"})

	workerSignals = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warden",
		Name:      "worker_signals_total",
		Help:      "Total number of signals delivered to workers, by signal name.",
	}, []string{"worker", "signal"})

	workerExitCode = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "warden",
		Name:      "worker_last_exit_code",
		Help:      "Exit code observed when a worker was last reaped.",
	}, []string{"worker"})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "warden",
		Name:      "build_info",
		Help:      "Build metadata for the running warden binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(workerRunning, workerLaunches, workerSignals, workerExitCode, buildInfo)
}

// Registry returns the Prometheus registry containing all warden metrics.
func Registry() *prometheus.Registry {
	return registry
}

// SetWorkerRunning records whether the named worker currently has a live
// process.
func SetWorkerRunning(worker string, running bool) {
	if worker == "" {
		return
	}
	value := 0.0
	if running {
		value = 1.0
	}
	workerRunning.WithLabelValues(worker).Set(value)
}

// IncrementWorkerLaunch counts a successful launch for the named worker.
func IncrementWorkerLaunch(worker string) {
	if worker == "" {
		return
	}
	workerLaunches.WithLabelValues(worker).Inc()
}

// IncrementWorkerSignal counts a signal delivery attempt for the named
// worker.
func IncrementWorkerSignal(worker, signal string) {
	if worker == "" {
		return
	}
	if signal == "" {
		signal = "unknown"
	}
	workerSignals.WithLabelValues(worker, signal).Inc()
}

// SetWorkerExitCode records the exit code observed at reap time.
func SetWorkerExitCode(worker string, code int) {
	if worker == "" {
		return
	}
	workerExitCode.WithLabelValues(worker).Set(float64(code))
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}

// ResetWorker clears the per-worker series once a worker record is removed.
func ResetWorker(worker string) {
	if worker == "" {
		return
	}
	workerRunning.DeleteLabelValues(worker)
	workerLaunches.DeleteLabelValues(worker)
	workerExitCode.DeleteLabelValues(worker)
	workerSignals.DeletePartialMatch(prometheus.Labels{"worker": worker})
}
