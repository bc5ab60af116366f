package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

// AzureBlobBackend stores objects as block blobs in one container.
type AzureBlobBackend struct {
	client        *azblob.Client
	containerName string
	logger        *slog.Logger
}

// AzureBlobConfig holds Azure Blob Storage settings. Authentication is
// chosen in order: connection string, shared key, managed identity.
type AzureBlobConfig struct {
	ConnectionString string

	AccountName string
	AccountKey  string

	// UseManagedIdentity authenticates with the default Azure credential
	// chain, for deployments inside Azure.
	UseManagedIdentity bool

	// ContainerName is required.
	ContainerName string

	// Endpoint overrides the account URL, for Azurite.
	Endpoint string
}

// NewAzureBlobBackend creates an Azure Blob Storage backend. A container
// that cannot be verified is logged, not treated as fatal.
func NewAzureBlobBackend(cfg AzureBlobConfig, logger *slog.Logger) (*AzureBlobBackend, error) {
	if cfg.ContainerName == "" {
		return nil, errors.New("azure container name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "azure-storage")

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountName != "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", cfg.AccountName)
	}

	var (
		client *azblob.Client
		err    error
	)
	switch {
	case cfg.ConnectionString != "":
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client from connection string: %w", err)
		}
		log.Info("using connection string authentication")

	case cfg.AccountName != "" && cfg.AccountKey != "":
		cred, credErr := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
		if credErr != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", credErr)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(endpoint, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client with shared key: %w", err)
		}
		log.Info("using shared key authentication")

	case cfg.UseManagedIdentity && cfg.AccountName != "":
		cred, credErr := azidentity.NewDefaultAzureCredential(nil)
		if credErr != nil {
			return nil, fmt.Errorf("failed to create managed identity credential: %w", credErr)
		}
		client, err = azblob.NewClient(endpoint, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client with managed identity: %w", err)
		}
		log.Info("using managed identity authentication")

	default:
		return nil, errors.New("no Azure authentication configured: provide a connection string, account name and key, or account name with managed identity")
	}

	b := &AzureBlobBackend{client: client, containerName: cfg.ContainerName, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := b.container().GetProperties(ctx, nil); err != nil {
		log.Warn("could not verify container exists", "container", cfg.ContainerName, "error", err)
	} else {
		log.Info("connected to Azure Blob Storage", "container", cfg.ContainerName)
	}
	return b, nil
}

func (b *AzureBlobBackend) container() *container.Client {
	return b.client.ServiceClient().NewContainerClient(b.containerName)
}

// Write uploads data as a block blob.
func (b *AzureBlobBackend) Write(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	contentType := contentTypeOf(key)

	_, err := b.container().NewBlockBlobClient(key).UploadStream(ctx, bytes.NewReader(data), &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		b.logger.Error("failed to write blob", "path", key, "size", len(data), "error", err)
		return fmt.Errorf("failed to write to Azure Blob Storage: %w", err)
	}

	b.logger.Debug("wrote blob", "path", key, "size", len(data), "duration", time.Since(start))
	return nil
}

// Read downloads the blob at key.
func (b *AzureBlobBackend) Read(ctx context.Context, key string) ([]byte, error) {
	resp, err := b.container().NewBlobClient(key).DownloadStream(ctx, nil)
	if err != nil {
		if isAzureNotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read from Azure Blob Storage: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Azure blob body: %w", err)
	}
	return data, nil
}

// List pages through the blobs under prefix.
func (b *AzureBlobBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	pager := b.container().NewListBlobsFlatPager(&container.ListBlobsFlatOptions{Prefix: &prefix})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list Azure blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				keys = append(keys, *item.Name)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes the blob at key.
func (b *AzureBlobBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.container().NewBlobClient(key).Delete(ctx, nil); err != nil {
		if isAzureNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete from Azure Blob Storage: %w", err)
	}
	b.logger.Debug("deleted blob", "path", key)
	return nil
}

// Exists checks the blob properties.
func (b *AzureBlobBackend) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := b.container().NewBlobClient(key).GetProperties(ctx, nil); err != nil {
		if isAzureNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check Azure blob existence: %w", err)
	}
	return true, nil
}

// Close is a no-op.
func (b *AzureBlobBackend) Close() error {
	b.logger.Info("Azure Blob Storage backend closed")
	return nil
}

// Type returns "azure".
func (b *AzureBlobBackend) Type() string { return "azure" }

// Container returns the container name.
func (b *AzureBlobBackend) Container() string { return b.containerName }

func isAzureNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusNotFound
	}
	return strings.Contains(err.Error(), "BlobNotFound")
}

// contentTypeOf returns the MIME type stored with uploaded objects.
func contentTypeOf(key string) string {
	switch {
	case strings.HasSuffix(key, ".csv"):
		return "text/csv"
	case strings.HasSuffix(key, ".gz"):
		return "application/gzip"
	case strings.HasSuffix(key, ".zst"):
		return "application/zstd"
	default:
		return "application/octet-stream"
	}
}
