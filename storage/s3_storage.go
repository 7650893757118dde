package storage

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// S3Storage keeps blobs as objects in a single S3 (or S3-compatible)
// bucket.
type S3Storage struct {
	Client *s3.Client
	Bucket string
}

// NewS3Storage loads the default AWS configuration. An S3-compatible
// endpoint (e.g. R2, MinIO) can be set through S3_ENDPOINT.
func NewS3Storage(bucket string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		logrus.Errorf("Failed to load AWS configuration: %v", err)
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	logrus.Info("Successfully configured S3 storage")
	return &S3Storage{Client: client, Bucket: bucket}, nil
}

func (s *S3Storage) Upload(file io.Reader, filename string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"filename": filename,
		"bucket":   s.Bucket,
	}).Info("Initiating file upload")

	_, err := s.Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(filename),
		Body:   file,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"filename": filename,
			"error":    err,
		}).Error("Error uploading file")
		return "", err
	}
	return filename, nil
}

// Download copies the object into a temporary file so callers get the
// same *os.File shape as LocalStorage.
func (s *S3Storage) Download(filename string) (*os.File, error) {
	result, err := s.Client.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"filename": filename,
			"error":    err,
		}).Error("Error downloading file")
		return nil, err
	}
	defer result.Body.Close()

	tmpFile, err := os.CreateTemp("", "download-*")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmpFile, result.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return nil, err
	}
	if _, err := tmpFile.Seek(0, io.SeekStart); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return nil, err
	}
	return tmpFile, nil
}

func (s *S3Storage) Delete(filename string) error {
	logrus.WithFields(logrus.Fields{
		"filename": filename,
		"bucket":   s.Bucket,
	}).Info("Initiating file deletion")

	_, err := s.Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(filename),
	})
	return err
}

func (s *S3Storage) Exists(filename string) (bool, error) {
	_, err := s.Client.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(filename),
	})
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *S3Storage) List() ([]BlobInfo, error) {
	var blobs []BlobInfo
	paginator := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.TODO())
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			blobs = append(blobs, BlobInfo{
				Name:    aws.ToString(obj.Key),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}
	return blobs, nil
}
