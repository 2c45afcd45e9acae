package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func envFileFlag(v *viper.Viper) []string {
	return v.GetStringSlice("env_file")
}

func addEnvFileFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringSlice("env-file", []string{".env"}, "Env files to load, missing files are skipped")
	_ = v.BindPFlag("env_file", flags.Lookup("env-file"))
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper, defaultAddress string) {
	flags.String("address", defaultAddress, "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "DOCSITE_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/docsite", "Base path to export the json api on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "DOCSITE_BASE_PATH")
}

func configFlag(v *viper.Viper) string {
	return v.GetString("config")
}

func addConfigFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("config", "", "Site config file (json, yaml or toml), the built-in Neton config when empty")
	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindEnv("config", "DOCSITE_CONFIG")
}

func formatFlag(v *viper.Viper) string {
	return v.GetString("format")
}

func addFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("format", "", "Format of the config source (json, yaml, toml), derived from the name when empty")
	_ = v.BindPFlag("format", flags.Lookup("format"))
	_ = v.BindEnv("format", "DOCSITE_FORMAT")
}

func contentFlag(v *viper.Viper) string {
	return v.GetString("content")
}

func addContentFlag(flags *pflag.FlagSet, v *viper.Viper, defaultDir string) {
	flags.String("content", defaultDir, "Markdown content directory")
	_ = v.BindPFlag("content", flags.Lookup("content"))
	_ = v.BindEnv("content", "DOCSITE_CONTENT")
}

func outFlag(v *viper.Viper) string {
	return v.GetString("out")
}

func addOutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("out", "dist", "Output directory")
	_ = v.BindPFlag("out", flags.Lookup("out"))
	_ = v.BindEnv("out", "DOCSITE_OUT")
}

func themeFlag(v *viper.Viper) string {
	return v.GetString("theme")
}

func addThemeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("theme", "neton", "Theme to render pages with (default, neton)")
	_ = v.BindPFlag("theme", flags.Lookup("theme"))
	_ = v.BindEnv("theme", "DOCSITE_THEME")
}

func minifyFlag(v *viper.Viper) bool {
	return v.GetBool("minify")
}

func addMinifyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("minify", false, "Minify html, css and json output")
	_ = v.BindPFlag("minify", flags.Lookup("minify"))
	_ = v.BindEnv("minify", "DOCSITE_MINIFY")
}

func strictFlag(v *viper.Viper) bool {
	return v.GetBool("strict")
}

func addStrictFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("strict", false, "Fail the build on broken links")
	_ = v.BindPFlag("strict", flags.Lookup("strict"))
	_ = v.BindEnv("strict", "DOCSITE_STRICT")
}

func cleanFlag(v *viper.Viper) bool {
	return v.GetBool("clean")
}

func addCleanFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("clean", false, "Remove the output directory before building")
	_ = v.BindPFlag("clean", flags.Lookup("clean"))
	_ = v.BindEnv("clean", "DOCSITE_CLEAN")
}

func concurrencyFlag(v *viper.Viper) int {
	return v.GetInt("concurrency")
}

func addConcurrencyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("concurrency", 4, "Number of pages rendered in parallel")
	_ = v.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = v.BindEnv("concurrency", "DOCSITE_CONCURRENCY")
}

func gitFlag(v *viper.Viper) bool {
	return v.GetBool("git")
}

func addGitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("git", true, "Use git commit times for last updated, falls back to file modification times")
	_ = v.BindPFlag("git", flags.Lookup("git"))
	_ = v.BindEnv("git", "DOCSITE_GIT")
}

func pollFlag(v *viper.Viper) bool {
	return v.GetBool("poll.enabled")
}

func addPollFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("poll", false, "If true, the source arg will be polled periodically")
	_ = v.BindPFlag("poll.enabled", flags.Lookup("poll"))
	_ = v.BindEnv("poll.enabled", "DOCSITE_POLL")
}

func pollIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("poll.interval")
}

func addPollIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("poll-interval", time.Minute, "Specifies the poll interval")
	_ = v.BindPFlag("poll.interval", flags.Lookup("poll-interval"))
	_ = v.BindEnv("poll.interval", "DOCSITE_POLL_INTERVAL")
}

func watchFlag(v *viper.Viper) bool {
	return v.GetBool("watch.enabled")
}

func addWatchFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("watch", false, "If true, a local source file is reloaded when it changes")
	_ = v.BindPFlag("watch.enabled", flags.Lookup("watch"))
	_ = v.BindEnv("watch.enabled", "DOCSITE_WATCH")
}

func watchDebounceFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("watch.debounce")
}

func addWatchDebounceFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("watch-debounce", 250*time.Millisecond, "Changes within this window trigger a single reload")
	_ = v.BindPFlag("watch.debounce", flags.Lookup("watch-debounce"))
	_ = v.BindEnv("watch.debounce", "DOCSITE_WATCH_DEBOUNCE")
}

func historyDirFlag(v *viper.Viper) string {
	return v.GetString("history.dir")
}

func addHistoryDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("history-dir", "/var/lib/docsite", "Where to put my data")
	_ = v.BindPFlag("history.dir", flags.Lookup("history-dir"))
	_ = v.BindEnv("history.dir", "DOCSITE_HISTORY_DIR")
}

func historyLimitFlag(v *viper.Viper) int {
	return v.GetInt("history.limit")
}

func addHistoryLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("history-limit", 2, "Number of history records to keep")
	_ = v.BindPFlag("history.limit", flags.Lookup("history-limit"))
	_ = v.BindEnv("history.limit", "DOCSITE_HISTORY_LIMIT")
}

func storageTypeFlag(v *viper.Viper) string {
	return v.GetString("storage.type")
}

func addStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-type", "filesystem", "History storage backend (filesystem, blob)")
	_ = v.BindPFlag("storage.type", flags.Lookup("storage-type"))
	_ = v.BindEnv("storage.type", "DOCSITE_STORAGE_TYPE")
}

func storageBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.bucket")
}

func addStorageBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-bucket", "", "Blob bucket url, e.g. gs://bucket, s3://bucket or azblob://container")
	_ = v.BindPFlag("storage.blob.bucket", flags.Lookup("storage-blob-bucket"))
	_ = v.BindEnv("storage.blob.bucket", "DOCSITE_STORAGE_BLOB_BUCKET")
}

func storageBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.prefix")
}

func addStorageBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-blob-prefix", "", "Key prefix within the blob bucket")
	_ = v.BindPFlag("storage.blob.prefix", flags.Lookup("storage-blob-prefix"))
	_ = v.BindEnv("storage.blob.prefix", "DOCSITE_STORAGE_BLOB_PREFIX")
}

func repositoryTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("repository.timeout")
}

func addRepositoryTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("repository-timeout", 2*time.Minute, "Timeout for loading the config source")
	_ = v.BindPFlag("repository.timeout", flags.Lookup("repository-timeout"))
	_ = v.BindEnv("repository.timeout", "DOCSITE_REPOSITORY_TIMEOUT")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Graceful period before shutting down")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "DOCSITE_GRACEFUL_PERIOD")
}

func gzipLevelFlag(v *viper.Viper) int {
	return v.GetInt("gzip.level")
}

func addGzipLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("gzip-level", -1, "Gzip compression level of http responses")
	_ = v.BindPFlag("gzip.level", flags.Lookup("gzip-level"))
	_ = v.BindEnv("gzip.level", "DOCSITE_GZIP_LEVEL")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
}

func servicePProfEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.pprof.enabled")
}

func addServicePProfEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-pprof-enabled", false, "Enable pprof service")
	_ = v.BindPFlag("service.pprof.enabled", flags.Lookup("service-pprof-enabled"))
}

func otelEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("otel.enabled")
}

func addOtelEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("otel-enabled", false, "Enable otel service")
	_ = v.BindPFlag("otel.enabled", flags.Lookup("otel-enabled"))
	_ = v.BindEnv("otel.enabled", "OTEL_ENABLED")
}
