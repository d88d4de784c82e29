package main

import (
	"os"
	"strings"

	"gowol/internal/magic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Configuration flags.
	hostsFile  string
	verbose    bool
	quiet      bool
	jsonOutput bool

	useIPv4   bool
	useIPv6   bool
	port      int
	broadcast string
	ifaceName string
)

var rootCmd = &cobra.Command{
	Use:   "wol [flags] <MAC|host>",
	Short: "Send a Wake-on-LAN magic packet",
	Long: `wol powers on a machine on the local network by broadcasting a
Wake-on-LAN magic packet to its MAC address.

The target is either a MAC address (00:22:44:66:88:AA or
00-22-44-66-88-aa) or the name of an entry in the hosts file.
By default the packet goes to the IPv4 limited broadcast address
255.255.255.255 on UDP port 9; with -6 it goes to the IPv6 all-nodes
multicast group ff02::1 instead.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE:    runWake,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&hostsFile, "config", "c", "", "hosts file with named wake targets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output logs in JSON format")

	rootCmd.Flags().BoolVarP(&useIPv4, "ipv4", "4", false, "broadcast over IPv4 (default)")
	rootCmd.Flags().BoolVarP(&useIPv6, "ipv6", "6", false, "send to the IPv6 all-nodes multicast group")
	rootCmd.Flags().IntVarP(&port, "port", "p", magic.Port, "UDP destination port")
	rootCmd.Flags().StringVarP(&broadcast, "broadcast", "b", "", "broadcast address override (e.g. 192.168.1.255)")
	rootCmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "send a raw Ethernet frame via this interface instead of UDP")
	rootCmd.MarkFlagsMutuallyExclusive("ipv4", "ipv6")

	rootCmd.AddCommand(hostsCmd)
}

func setupLogging() {
	// Set output format
	if jsonOutput {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set log level
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
