package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyOriginName         = "map.origin_name"
	keyUseTempFile        = "map.use_temp_file"
	keyAllowEmptyFileName = "map.allow_empty_file_name"
	keyExtraSections      = "info.extra_sections"
	keyChildSections      = "info.child_sections"
	keyChildArgsPrefix    = "info.child_args."
	keyGroupInfo          = "category.group_info"
	keyExtendedInfo       = "category.extended_info"
	keyArgDescToken       = "category.arg_desc_token"
	keyReloadDebounce     = "reload.debounce"
	keyReloadMinInterval  = "reload.min_interval"
	keyCancelWaitInterval = "reload.cancel_wait_interval"
	keyCancelWaitAttempts = "reload.cancel_wait_attempts"
	keyDataDir            = "storage.data_dir"
	keyMirrorBucket       = "mirror.s3.bucket"
	keyMirrorPrefix       = "mirror.s3.prefix"
	keyMirrorRegion       = "mirror.s3.region"
	keyMirrorEndpoint     = "mirror.s3.endpoint"
	keyMirrorPathStyle    = "mirror.s3.use_path_style"
	keyMirrorAccessKey    = "mirror.s3.access_key_id"
	keyMirrorSecretKey    = "mirror.s3.secret_access_key"
	keyMetricsListen      = "metrics.listen"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()
	ds := defaults.Store

	settings := &domain.AppSettings{
		Store: domain.StoreSettings{
			OriginName:         s.getString(keyOriginName, ds.OriginName),
			UseTempFile:        s.getBool(keyUseTempFile, ds.UseTempFile),
			AllowEmptyFileName: s.getBool(keyAllowEmptyFileName, ds.AllowEmptyFileName),
			ExtraInfoNames:     s.configStore.GetStringSlice(keyExtraSections),
			ChildArgs:          s.getChildArgs(ds.ChildArgs),
			Category: domain.CategoryPolicy{
				GroupInfoNames:    s.getStrings(keyGroupInfo, ds.Category.GroupInfoNames),
				ExtendedInfoNames: s.getStrings(keyExtendedInfo, ds.Category.ExtendedInfoNames),
				ArgDescToken:      s.getString(keyArgDescToken, ds.Category.ArgDescToken),
			},
			Reload: domain.ReloadSettings{
				Debounce:           s.getDuration(keyReloadDebounce, ds.Reload.Debounce),
				MinInterval:        s.getDuration(keyReloadMinInterval, ds.Reload.MinInterval),
				CancelWaitInterval: s.getDuration(keyCancelWaitInterval, ds.Reload.CancelWaitInterval),
				CancelWaitAttempts: s.getInt(keyCancelWaitAttempts, ds.Reload.CancelWaitAttempts),
			},
		},
		Storage: domain.StorageSettings{
			DataDir: s.getString(keyDataDir, defaults.Storage.DataDir),
		},
		Mirror: domain.MirrorSettings{
			Bucket:          s.configStore.GetString(keyMirrorBucket),
			Prefix:          s.getString(keyMirrorPrefix, defaults.Mirror.Prefix),
			Region:          s.configStore.GetString(keyMirrorRegion),
			Endpoint:        s.configStore.GetString(keyMirrorEndpoint),
			UsePathStyle:    s.configStore.GetBool(keyMirrorPathStyle),
			AccessKeyID:     s.configStore.GetString(keyMirrorAccessKey),
			SecretAccessKey: s.configStore.GetString(keyMirrorSecretKey),
		},
		Metrics: domain.MetricsSettings{
			Listen: s.configStore.GetString(keyMetricsListen),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	type setting struct {
		key   string
		value any
	}
	st := settings.Store
	values := []setting{
		{keyOriginName, st.OriginName},
		{keyUseTempFile, st.UseTempFile},
		{keyAllowEmptyFileName, st.AllowEmptyFileName},
		{keyExtraSections, st.ExtraInfoNames},
		{keyGroupInfo, st.Category.GroupInfoNames},
		{keyExtendedInfo, st.Category.ExtendedInfoNames},
		{keyArgDescToken, st.Category.ArgDescToken},
		{keyReloadDebounce, st.Reload.Debounce.String()},
		{keyReloadMinInterval, st.Reload.MinInterval.String()},
		{keyCancelWaitInterval, st.Reload.CancelWaitInterval.String()},
		{keyCancelWaitAttempts, st.Reload.CancelWaitAttempts},
		{keyDataDir, settings.Storage.DataDir},
		{keyMirrorBucket, settings.Mirror.Bucket},
		{keyMirrorPrefix, settings.Mirror.Prefix},
		{keyMirrorRegion, settings.Mirror.Region},
		{keyMirrorEndpoint, settings.Mirror.Endpoint},
		{keyMirrorPathStyle, settings.Mirror.UsePathStyle},
		{keyMetricsListen, settings.Metrics.Listen},
	}

	sections := make([]string, 0, len(st.ChildArgs))
	for section, args := range st.ChildArgs {
		sections = append(sections, section)
		values = append(values, setting{keyChildArgsPrefix + section, args})
	}
	values = append(values, setting{keyChildSections, sections})

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Credentials are only written when set.
	if settings.Mirror.HasStaticCredentials() {
		if err := s.configStore.Set(keyMirrorAccessKey, settings.Mirror.AccessKeyID); err != nil {
			return fmt.Errorf("save %s: %w", keyMirrorAccessKey, err)
		}
		if err := s.configStore.Set(keyMirrorSecretKey, settings.Mirror.SecretAccessKey); err != nil {
			return fmt.Errorf("save %s: %w", keyMirrorSecretKey, err)
		}
	}

	return nil
}

// Validate checks the current settings for consistency.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if settings.Store.Reload.CancelWaitAttempts < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative: %w", keyCancelWaitAttempts, domain.ErrInvalidInput))
	}
	if settings.Store.Reload.MinInterval < 0 || settings.Store.Reload.Debounce < 0 {
		errs = append(errs, fmt.Errorf("reload intervals must not be negative: %w", domain.ErrInvalidInput))
	}
	m := settings.Mirror
	if (m.AccessKeyID == "") != (m.SecretAccessKey == "") {
		errs = append(errs, fmt.Errorf("mirror credentials need both key id and secret: %w", domain.ErrInvalidInput))
	}
	if !m.IsConfigured() && m.Endpoint != "" {
		errs = append(errs, fmt.Errorf("mirror endpoint set without bucket: %w", domain.ErrInvalidInput))
	}
	return errors.Join(errs...)
}

// GetDefaults returns default settings. The data directory defaults to
// the directory holding the configuration file.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	dataDir := ""
	if path := s.configStore.Path(); filepath.IsAbs(path) {
		dataDir = filepath.Dir(path)
	}
	return domain.DefaultAppSettings(dataDir)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getChildArgs reads the child keywords of every section listed under
// info.child_sections. Without that list the defaults apply.
func (s *SettingsService) getChildArgs(defaultVal map[string][]string) map[string][]string {
	if _, exists := s.configStore.Get(keyChildSections); !exists {
		return defaultVal
	}
	out := make(map[string][]string)
	for _, section := range s.configStore.GetStringSlice(keyChildSections) {
		if args := s.configStore.GetStringSlice(keyChildArgsPrefix + section); len(args) > 0 {
			out[section] = args
		}
	}
	return out
}
