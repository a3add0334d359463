package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

// Print host details relevant to picking a worker count.
func HostInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("\nLogical CPUs: %d\n", runtime.NumCPU()))

	cpuInfo, err := cpu.Info()
	if err != nil {
		return err
	}
	for idx, info := range cpuInfo {
		buf.WriteString(fmt.Sprintf("[CPU %02d]\n  Model %s\n  Cores %d\n  Clock %.0f MHz\n", idx, info.ModelName, info.Cores, info.Mhz))
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return err
	}
	buf.WriteString(fmt.Sprintf("Memory: %.1f GB total, %.1f GB available\n",
		float64(memInfo.Total)/(1<<30), float64(memInfo.Available)/(1<<30)))

	logger.Notice(buf.String())
	return nil
}
