package main

import (
	"fmt"
	"os"
	"sort"

	"gowol/internal/config"
	"gowol/internal/magic"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List the configured wake targets",
	Long:  `Validate the hosts file and list its wake targets without sending any packets.`,
	RunE:  listHosts,
}

func listHosts(cmd *cobra.Command, args []string) error {
	if hostsFile == "" {
		log.Error().Msg("hosts file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(hostsFile); os.IsNotExist(err) {
		log.Error().Str("file", hostsFile).Msg("hosts file not found")
		return fmt.Errorf("hosts file not found: %s", hostsFile)
	}

	cfg, err := config.NewParser().LoadFile(hostsFile)
	if err != nil {
		log.Error().Err(err).Str("file", hostsFile).Msg("failed to parse hosts file")
		return err
	}

	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("hosts file validation failed")
		return err
	}

	names := make([]string, 0, len(cfg.Hosts))
	for name := range cfg.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%d host(s) configured:\n", len(names))
	for _, name := range names {
		entry := cfg.Hosts[name]
		fmt.Printf("  %-20s %s", name, entry.MACAddress)
		if entry.Broadcast != "" {
			fmt.Printf("  via %s", entry.Broadcast)
		}
		if entry.Port != magic.Port {
			fmt.Printf("  port %d", entry.Port)
		}
		fmt.Println()
	}

	return nil
}
