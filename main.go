package main

import (
	"log"
	"time"

	"github.com/spf13/pflag"

	"InnKeeper/internal/server"
)

func main() {
	configPath := pflag.StringP("config", "c", "configs/inn.yaml", "path to the inn YAML config")
	addr := pflag.String("addr", "", "address to listen on (e.g., 127.0.0.1:8080)")
	tick := pflag.Duration("tick", 0, "real time per simulated hour")
	catalog := pflag.String("catalog", "", "path to a JSONC mission catalog (built-in catalog when empty)")
	saveDir := pflag.String("save-dir", "", "directory holding save slots")
	saveSlot := pflag.String("slot", "", "save slot to restore and autosave into")
	saveFormat := pflag.String("save-format", "", "save encoding: yaml or cbor")
	autosave := pflag.Duration("autosave", 0, "autosave interval (0 keeps the configured value)")
	seed := pflag.Int64("seed", 0, "random seed for mission rolls")
	pflag.Parse()

	var overrides server.Overrides
	if pflag.CommandLine.Changed("addr") {
		overrides.Addr = addr
	}
	if pflag.CommandLine.Changed("tick") {
		overrides.TickInterval = tick
	}
	if pflag.CommandLine.Changed("catalog") {
		overrides.CatalogPath = catalog
	}
	if pflag.CommandLine.Changed("save-dir") {
		overrides.SaveDir = saveDir
	}
	if pflag.CommandLine.Changed("slot") {
		overrides.SaveSlot = saveSlot
	}
	if pflag.CommandLine.Changed("save-format") {
		overrides.SaveFormat = saveFormat
	}
	if pflag.CommandLine.Changed("autosave") {
		overrides.AutosaveInterval = autosave
	}
	if pflag.CommandLine.Changed("seed") {
		overrides.Seed = seed
	}

	cfg, err := server.LoadConfig(*configPath, overrides)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("inn level %d, %d staff, autosave every %s", cfg.Inn.Level, len(cfg.Inn.Staff), cfg.AutosaveInterval.Round(time.Second))
	server.StartApp(cfg)
}
