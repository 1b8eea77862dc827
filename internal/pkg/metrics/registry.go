package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registryMu sync.RWMutex
	registerer prometheus.Registerer = prometheus.DefaultRegisterer
	gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
)

// SetRegistry 替换全局 Registerer/Gatherer，必须在创建默认指标之前调用。
// reg 为 nil 时恢复 Prometheus 默认注册表。
func SetRegistry(reg *prometheus.Registry) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if reg == nil {
		registerer = prometheus.DefaultRegisterer
		gatherer = prometheus.DefaultGatherer
		return
	}
	registerer = reg
	gatherer = reg
}

// GetRegisterer 返回当前的 Registerer。
func GetRegisterer() prometheus.Registerer {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registerer
}

// GetGatherer 返回当前的 Gatherer，/metrics 端点从这里读取。
func GetGatherer() prometheus.Gatherer {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return gatherer
}
