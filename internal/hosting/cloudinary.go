package hosting

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin/search"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores sheets in one folder of a Cloudinary account
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary connects to the account; folder namespaces the sheets
func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary cloud_name, api_key and api_secret are required")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("error configuring cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) publicID(name string) string {
	if c.folder == "" {
		return name
	}
	return c.folder + "/" + name
}

// uploadParams carries the folder inside the public ID, never in Folder, so
// the stored key is the one Find searches for on accounts with dynamic folders
func (c *Cloudinary) uploadParams(name string) uploader.UploadParams {
	return uploader.UploadParams{PublicID: c.publicID(name)}
}

// Find searches the folder for an asset with the sheet's public ID
func (c *Cloudinary) Find(ctx context.Context, name string) (string, bool, error) {
	res, err := c.cld.Admin.Search(ctx, search.Query{
		Expression: fmt.Sprintf("public_id=%q", c.publicID(name)),
		MaxResults: 1,
	})
	if err != nil {
		return "", false, err
	}
	if res.Error.Message != "" {
		return "", false, errors.New(res.Error.Message)
	}
	if res.TotalCount == 0 || len(res.Assets) == 0 {
		return "", false, nil
	}
	return res.Assets[0].SecureURL, true, nil
}

// Upload stores the sheet as <folder>/<name>
func (c *Cloudinary) Upload(ctx context.Context, path, name string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, path, c.uploadParams(name))
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}
