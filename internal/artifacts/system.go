package artifacts

import (
	"os/user"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"
)

const unknownValue = "unknown"

// SystemInfo returns a static snapshot of the host. Values that cannot be
// determined are reported as "unknown".
func (c *Collector) SystemInfo() map[string]string {
	hostInfo, err := host.Info()
	if err != nil {
		c.logger.Warn("Failed to read host info", zap.Error(err))
	}
	cpus, err := cpu.Info()
	if err != nil {
		c.logger.Warn("Failed to read cpu info", zap.Error(err))
	}

	info := systemInfo(hostInfo, cpus)
	if u, err := user.Current(); err == nil {
		info["user"] = u.Username
	}

	c.logger.Info("System info collected",
		zap.String("hostname", info["hostname"]),
		zap.String("os", info["os"]))
	return info
}

// systemInfo maps host and cpu data onto the report keys. Either argument may be nil.
func systemInfo(h *host.InfoStat, cpus []cpu.InfoStat) map[string]string {
	info := map[string]string{
		"os":         runtime.GOOS,
		"os_release": unknownValue,
		"os_version": unknownValue,
		"machine":    runtime.GOARCH,
		"processor":  unknownValue,
		"hostname":   unknownValue,
		"user":       unknownValue,
		"cpus":       strconv.Itoa(runtime.NumCPU()),
	}

	if h != nil {
		setIfKnown(info, "os_release", h.KernelVersion)
		setIfKnown(info, "os_version", strings.TrimSpace(h.Platform+" "+h.PlatformVersion))
		setIfKnown(info, "machine", h.KernelArch)
		setIfKnown(info, "hostname", h.Hostname)
	}
	if len(cpus) > 0 {
		setIfKnown(info, "processor", strings.TrimSpace(cpus[0].ModelName))
	}
	return info
}

func setIfKnown(info map[string]string, key, value string) {
	if value != "" {
		info[key] = value
	}
}
