package main

import (
	"context"

	"gowol/internal/config"
	"gowol/internal/magic"
	"gowol/internal/models"
	"gowol/internal/services/wake"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func runWake(cmd *cobra.Command, args []string) error {
	cfg, err := buildWakeConfig(args[0])
	if err != nil {
		log.Error().Err(err).Str("target", args[0]).Msg("invalid wake target")
		return err
	}

	svc := wake.New(log.Logger)
	result, err := svc.Wake(context.Background(), *cfg)
	if err != nil {
		log.Error().Err(err).Msg("wake failed")
		return err
	}
	if result.Error != nil {
		log.Error().Err(result.Error).Str("target", args[0]).Msg("wake failed")
		return result.Error
	}

	return nil
}

// buildWakeConfig turns the positional argument into a WakeConfig,
// resolving host aliases from the hosts file when one is configured.
func buildWakeConfig(target string) (*models.WakeConfig, error) {
	cfg := &models.WakeConfig{
		MACAddress: target,
		Protocol:   models.ProtocolIPv4,
		Port:       port,
		Broadcast:  broadcast,
		Interface:  ifaceName,
	}
	if useIPv6 {
		cfg.Protocol = models.ProtocolIPv6
	}

	if hostsFile == "" {
		return cfg, nil
	}

	hosts, err := config.NewParser().LoadFile(hostsFile)
	if err != nil {
		return nil, err
	}

	entry, err := config.Resolve(hosts, target)
	if err != nil {
		// Not an alias; treat the argument as a literal MAC address.
		return cfg, nil
	}

	log.Debug().Str("host", target).Str("mac", entry.MACAddress).Msg("resolved host alias")

	cfg.MACAddress = entry.MACAddress
	if broadcast == "" && entry.Broadcast != "" {
		cfg.Broadcast = entry.Broadcast
	}
	if port == magic.Port && entry.Port != 0 {
		cfg.Port = entry.Port
	}

	return cfg, nil
}
