package cmd

import (
	"context"
	"strings"

	keelhttp "github.com/foomo/keel/net/http"
	"github.com/netonframework/docsite/pkg/repo"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// supportedBlobSchemes lists the URL schemes supported by blob storage
var supportedBlobSchemes = []string{"gs://", "s3://", "azblob://"}

func addRepoFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addFormatFlag(flags, v)
	addPollFlag(flags, v)
	addPollIntervalFlag(flags, v)
	addWatchFlag(flags, v)
	addWatchDebounceFlag(flags, v)
	addHistoryDirFlag(flags, v)
	addHistoryLimitFlag(flags, v)
	addStorageTypeFlag(flags, v)
	addStorageBlobBucketFlag(flags, v)
	addStorageBlobPrefixFlag(flags, v)
	addRepositoryTimeoutFlag(flags, v)
}

// newRepo creates the history and the repo for a config source
func newRepo(ctx context.Context, l *zap.Logger, v *viper.Viper, source string) (*repo.Repo, *repo.History, error) {
	storage, err := createStorage(ctx, v, l)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create storage")
	}

	history, err := repo.NewHistory(l.Named("inst.history"),
		repo.HistoryWithStorage(storage),
		repo.HistoryWithHistoryDir(historyDirFlag(v)),
		repo.HistoryWithHistoryLimit(historyLimitFlag(v)),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create history")
	}

	opts := []repo.Option{
		repo.WithHTTPClient(
			keelhttp.NewHTTPClient(
				keelhttp.HTTPClientWithTimeout(repositoryTimeoutFlag(v)),
				keelhttp.HTTPClientWithTelemetry(),
			),
		),
		repo.WithPollInterval(pollIntervalFlag(v)),
		repo.WithPoll(pollFlag(v)),
		repo.WithWatch(watchFlag(v)),
		repo.WithWatchDebounce(watchDebounceFlag(v)),
	}
	if format := formatFlag(v); format != "" {
		opts = append(opts, repo.WithFormat(site.Format(format)))
	}

	return repo.New(l.Named("inst.repo"), source, history, opts...), history, nil
}

// createStorage creates a storage backend based on the configuration
func createStorage(ctx context.Context, v *viper.Viper, l *zap.Logger) (repo.Storage, error) {
	storageType := storageTypeFlag(v)
	blobBucket := storageBlobBucketFlag(v)
	blobPrefix := storageBlobPrefixFlag(v)

	if storageType != "blob" && (blobBucket != "" || blobPrefix != "") {
		l.Warn("blob storage flags are set but storage-type is not 'blob'; blob config will be ignored",
			zap.String("storage-type", storageType),
			zap.String("blob-bucket", blobBucket),
			zap.String("blob-prefix", blobPrefix),
		)
	}

	l.Info("creating storage", zap.String("type", storageType))

	switch storageType {
	case "blob":
		if blobBucket == "" {
			return nil, errors.New("blob bucket URL is required when storage-type is 'blob' (supported schemes: gs://, s3://, azblob://)")
		}
		if !isValidBlobScheme(blobBucket) {
			return nil, errors.Errorf("unsupported blob storage URL scheme in %q; supported schemes: gs://, s3://, azblob://", blobBucket)
		}
		l.Info("using blob storage",
			zap.String("bucket", blobBucket),
			zap.String("prefix", blobPrefix),
			zap.String("provider", detectBlobProvider(blobBucket)),
		)
		return repo.OpenStorage(ctx, blobBucket, blobPrefix)
	case "filesystem", "":
		dir := historyDirFlag(v)
		l.Info("using filesystem storage", zap.String("dir", dir))
		return repo.OpenStorage(ctx, dir, "")
	default:
		return nil, errors.Errorf("unknown storage type: %s (supported: filesystem, blob)", storageType)
	}
}

// isValidBlobScheme checks if the bucket URL has a supported scheme
func isValidBlobScheme(bucketURL string) bool {
	for _, scheme := range supportedBlobSchemes {
		if strings.HasPrefix(bucketURL, scheme) {
			return true
		}
	}
	return false
}

// detectBlobProvider returns a human-readable provider name from the URL scheme
func detectBlobProvider(bucketURL string) string {
	switch {
	case strings.HasPrefix(bucketURL, "gs://"):
		return "Google Cloud Storage"
	case strings.HasPrefix(bucketURL, "s3://"):
		return "AWS S3"
	case strings.HasPrefix(bucketURL, "azblob://"):
		return "Azure Blob Storage"
	default:
		return "unknown"
	}
}
