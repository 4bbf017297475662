// Package main is the entry point for the loom demo client. It wires
// the composer session controller to in-process collaborators and
// drives it through a terminal surface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomchat/loom/internal/analytics"
	"github.com/loomchat/loom/internal/composer"
	"github.com/loomchat/loom/internal/composertui"
	"github.com/loomchat/loom/internal/config"
	"github.com/loomchat/loom/internal/draft"
	"github.com/loomchat/loom/internal/featureflag"
	"github.com/loomchat/loom/internal/logging"
	"github.com/loomchat/loom/internal/media"
	"github.com/loomchat/loom/internal/permission"
	"github.com/loomchat/loom/internal/prefs"
	"github.com/loomchat/loom/internal/room"
	"github.com/loomchat/loom/internal/snackbar"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var _ = []string{commit, date}

var (
	configFile string
	roomName   string
	directRoom bool
)

var rootCmd = &cobra.Command{
	Use:     "loom",
	Short:   "Loom message composer demo",
	Long:    "Loom runs a composer session against an in-memory room so the authoring flow can be exercised end to end from a terminal.",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVar(&roomName, "room", "demo", "room name shown in the header")
	rootCmd.Flags().BoolVar(&directRoom, "direct", false, "treat the room as a one-to-one direct chat")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	loader := config.NewLoader()
	if configFile != "" {
		loader.SetConfigFile(configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logging.Init(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.Logging.EnableCaller,
	})
	log := logging.Component("main")

	store, closeStore, err := openPreferences(cfg)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer closeStore()

	selfUser := room.UserID(cfg.Session.UserID)
	demoRoom := buildRoom(selfUser)

	publisher := analytics.NewPublisher()
	defer publisher.Close()
	if err := subscribeAnalyticsLog(publisher); err != nil {
		return fmt.Errorf("subscribe analytics sink: %w", err)
	}

	dispatcher := snackbar.NewDispatcher()

	textKind := composer.TextKindMarkdown
	if cfg.Session.TextKind == "rich" || cfg.Flags.RichTextEditor {
		textKind = composer.TextKindRich
	}

	ctrl, err := composer.New(context.Background(), composer.Options{
		Room:         demoRoom,
		Picker:       buildPicker(),
		PreProcessor: media.PassthroughProcessor{},
		Permissions:  permission.NewGate(true),
		Flags: featureflag.NewStatic(map[featureflag.Flag]bool{
			featureflag.FlagLocationSharing: cfg.Flags.LocationSharing,
			featureflag.FlagPolls:           cfg.Flags.Polls,
			featureflag.FlagMentions:        cfg.Flags.Mentions,
			featureflag.FlagRichTextEditor:  cfg.Flags.RichTextEditor,
		}),
		Prefs:      store,
		Analytics:  analytics.NewService(publisher),
		Snackbar:   dispatcher,
		Drafts:     draft.NewMemoryStore(),
		SelfUserID: selfUser,
		TextKind:   textKind,
	})
	if err != nil {
		return fmt.Errorf("start composer session: %w", err)
	}
	defer ctrl.Close()

	log.Info().Str("room", roomName).Str("user", cfg.Session.UserID).Msg("composer session started")
	return composertui.Run(composertui.Config{
		Controller: ctrl,
		Snackbar:   dispatcher,
		RoomName:   roomName,
	})
}

func openPreferences(cfg *config.Config) (prefs.Store, func(), error) {
	if cfg.Preferences.Path == "" {
		return prefs.NewMemoryStore(), func() {}, nil
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, err
	}
	store, err := prefs.OpenSQLite(cfg.Preferences.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// buildRoom seeds an in-memory room with a small roster and scripted
// upload progress so attachment sends show a moving bar.
func buildRoom(selfUser room.UserID) *room.Memory {
	opts := []room.MemoryOption{
		room.WithRoster(
			room.Member{UserID: selfUser, Membership: room.MembershipJoin},
			room.Member{UserID: "@bob:loom.local", Membership: room.MembershipJoin},
			room.Member{UserID: "@dave:loom.local", DisplayName: "Dave", Membership: room.MembershipJoin},
			room.Member{UserID: "@carol:loom.local", DisplayName: "Carol", Membership: room.MembershipInvite},
		),
		room.WithNotifyPermission(selfUser),
		room.WithUploadProgress(
			[2]int64{0, 4096},
			[2]int64{1024, 4096},
			[2]int64{2048, 4096},
			[2]int64{3072, 4096},
			[2]int64{4096, 4096},
		),
	}
	if directRoom {
		opts = append(opts, room.WithDirect(true))
	}
	return room.NewMemory(opts...)
}

// buildPicker maps every pickable source to this binary, a stand-in
// for a platform file dialog.
func buildPicker() media.Picker {
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}
	return &media.FilePicker{Paths: map[media.Source]string{
		media.SourceGallery:     self,
		media.SourceCameraPhoto: self,
		media.SourceCameraVideo: self,
		media.SourceFiles:       self,
	}}
}

// subscribeAnalyticsLog attaches a log sink so captured events are
// visible while the demo runs.
func subscribeAnalyticsLog(publisher *analytics.Publisher) error {
	log := logging.Component("analytics-sink")
	return publisher.Subscribe("log-sink", analytics.Filter{}, func(event *analytics.Event) {
		if event.Kind == analytics.KindError {
			log.Warn().Str("error", event.Error).Msg("analytics error event")
			return
		}
		if event.Composer != nil {
			log.Info().
				Bool("is_editing", event.Composer.IsEditing).
				Bool("is_reply", event.Composer.IsReply).
				Bool("in_thread", event.Composer.InThread).
				Msg("analytics composer event")
		}
	})
}
