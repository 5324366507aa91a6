package server

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/mystore/internal/media"
)

const maxUploadBytes = 10 << 20

func (s *Server) UploadImage(c *gin.Context) {
	file, header, err := formFile(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	url, err := s.uploader.Upload(c.Request.Context(), assetFrom(file, header))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"url": url}})
}

func formFile(c *gin.Context) (multipart.File, *multipart.FileHeader, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, nil, media.ErrEmptyAsset
	}
	return file, header, nil
}

func assetFrom(file multipart.File, header *multipart.FileHeader) media.Asset {
	return media.Asset{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
}
