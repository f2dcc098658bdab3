package setup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/westward-dev/westward/internal/application/port/output"
)

// hardwareFamilies lists the supported HAL module families. The value is
// substituted into manifest templates as the hal_<family> module name.
var hardwareFamilies = []output.SelectOption{
	{Value: "stm32", Label: "STM32", Hint: "STMicroelectronics STM32 series"},
	{Value: "nordic", Label: "Nordic", Hint: "Nordic Semiconductor nRF series"},
	{Value: "espressif", Label: "Espressif", Hint: "Espressif ESP32 series"},
	{Value: "nxp", Label: "NXP", Hint: "NXP i.MX and Kinetis series"},
	{Value: "rpi_pico", Label: "Raspberry Pi Pico", Hint: "Raspberry Pi RP2040"},
	{Value: "atmel", Label: "Atmel", Hint: "Microchip SAM series"},
}

// requirementsCandidates are probed in order before falling back to a
// shallow scan of the synced tree
var requirementsCandidates = []string{
	filepath.Join("zephyr", "scripts", "requirements.txt"),
	filepath.Join("zephyr", "requirements.txt"),
	filepath.Join("scripts", "requirements.txt"),
	"requirements.txt",
}

var titleCaser = cases.Title(language.English)

func displayTitle(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

// findRequirements locates the Python requirements manifest under the
// synced tree. Fixed candidates are checked first, then the immediate
// children of the root; the first match wins.
func (uc *SetupUseCase) findRequirements() (string, bool) {
	for _, candidate := range requirementsCandidates {
		path := filepath.Join(uc.cfg.Root, candidate)
		if fileExists(path) {
			return path, true
		}
	}

	entries, err := os.ReadDir(uc.cfg.Root)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		for _, rel := range []string{"requirements.txt", filepath.Join("scripts", "requirements.txt")} {
			path := filepath.Join(uc.cfg.Root, entry.Name(), rel)
			if fileExists(path) {
				return path, true
			}
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func commandLine(cmd output.Command) string {
	return strings.TrimSpace(cmd.Bin + " " + strings.Join(cmd.Args, " "))
}

// sleepCtx pauses for d unless the context ends first
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
