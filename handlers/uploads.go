package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadInventoryImage accepts a multipart image, stores the original plus
// a 200px thumbnail, and appends both URLs to the item's image list.
func UploadInventoryImage(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	item, err := models.GetInventory(ctx, id)
	if err != nil {
		respondError(c, "handlers", "UploadInventoryImage", err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "image file is required"})
		return
	}
	if fileHeader.Size > maxUploadSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file size exceeds 5MB limit"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !imageMimeTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "unsupported image type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, "handlers", "UploadInventoryImage", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
	if err != nil {
		respondError(c, "handlers", "UploadInventoryImage", err)
		return
	}

	objectKey := path.Join("inventory", fmt.Sprint(item.ID), utils.GenerateUniqueFilename()+imageExtension(contentType))
	imageURL, err := utils.SaveImageToGCS(ctx, objectKey, contentType, data)
	if err != nil {
		respondError(c, "handlers", "UploadInventoryImage", err)
		return
	}

	thumbnailURL := ""
	img, err := imaging.Decode(bytes.NewReader(data))
	if err == nil {
		thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err == nil {
			thumbnailKey := thumbnailObjectKey(objectKey)
			if url, err := utils.SaveImageToGCS(ctx, thumbnailKey, "image/jpeg", buf.Bytes()); err == nil {
				thumbnailURL = url
			}
		}
	}

	item, err = models.AppendInventoryImage(ctx, item.ID, imageURL)
	if err != nil {
		respondError(c, "handlers", "UploadInventoryImage", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":          item,
		"image_url":     imageURL,
		"thumbnail_url": thumbnailURL,
	})
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func thumbnailObjectKey(objectKey string) string {
	dir := path.Dir(objectKey)
	filename := strings.TrimSuffix(path.Base(objectKey), path.Ext(objectKey)) + ".jpg"
	return path.Join(dir, "thumbnails", filename)
}
