package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/sirupsen/logrus"
)

// AzureBlobProvider stores each file as a block blob in one container.
type AzureBlobProvider struct {
	client        *azblob.Client
	containerName string
}

var _ StorageProvider = (*AzureBlobProvider)(nil)

// NewAzureBlobProvider authenticates with the default Azure credential chain
// (managed identity, environment, CLI) against the given account.
func NewAzureBlobProvider(ctx context.Context, accountName, containerName string) (*AzureBlobProvider, error) {
	if accountName == "" {
		return nil, fmt.Errorf("storage account name is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	client, err := azblob.NewClient(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	return newAzureBlobProvider(ctx, client, containerName)
}

// NewAzureBlobProviderFromConnectionString is used with Azurite or shared keys.
func NewAzureBlobProviderFromConnectionString(ctx context.Context, connectionString, containerName string) (*AzureBlobProvider, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}
	return newAzureBlobProvider(ctx, client, containerName)
}

func newAzureBlobProvider(ctx context.Context, client *azblob.Client, containerName string) (*AzureBlobProvider, error) {
	p := &AzureBlobProvider{
		client:        client,
		containerName: containerName,
	}
	if err := p.ensureContainer(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure container exists: %w", err)
	}
	return p, nil
}

func (p *AzureBlobProvider) ensureContainer(ctx context.Context) error {
	_, err := p.client.CreateContainer(ctx, p.containerName, nil)
	if err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("failed to create container: %w", err)
		}
		logrus.Debugf("Container %s already exists", p.containerName)
	} else {
		logrus.Infof("Created container %s", p.containerName)
	}
	return nil
}

func (p *AzureBlobProvider) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	pager := p.client.NewListBlobsFlatPager(p.containerName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				names = appendFlatName(names, *blob.Name)
			}
		}
	}
	return names, nil
}

// appendFlatName drops blobs under virtual directories ("dir/file") and
// other names unreachable through the flat namespace.
func appendFlatName(names []string, name string) []string {
	if ValidateName(name) != nil {
		logrus.Debugf("Skipping blob %q outside the flat namespace", name)
		return names
	}
	return append(names, name)
}

func (p *AzureBlobProvider) Exists(ctx context.Context, name string) (bool, error) {
	if ValidateName(name) != nil {
		return false, nil
	}
	blobClient := p.client.ServiceClient().NewContainerClient(p.containerName).NewBlobClient(name)
	if _, err := blobClient.GetProperties(ctx, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get properties of blob %s: %w", name, err)
	}
	return true, nil
}

func (p *AzureBlobProvider) Get(ctx context.Context, name string) ([]byte, error) {
	if ValidateName(name) != nil {
		return nil, ErrNotFound
	}
	response, err := p.client.DownloadStream(ctx, p.containerName, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to download blob %s: %w", name, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

func (p *AzureBlobProvider) Put(ctx context.Context, name string, content []byte) error {
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}
	_, err := p.client.UploadBuffer(ctx, p.containerName, name, content, &azblob.UploadBufferOptions{
		BlockSize:   int64(1024 * 1024),
		Concurrency: 3,
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", name, err)
	}
	logrus.Debugf("Stored %s in container %s", name, p.containerName)
	return nil
}

func (p *AzureBlobProvider) Delete(ctx context.Context, name string) error {
	if ValidateName(name) != nil {
		return ErrNotFound
	}
	if _, err := p.client.DeleteBlob(ctx, p.containerName, name, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	logrus.Debugf("Deleted %s from container %s", name, p.containerName)
	return nil
}
