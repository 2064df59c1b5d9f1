package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	s3manageriface.UploaderAPI
	input *s3manager.UploadInput
	body  []byte
	err   error
}

func (u *fakeUploader) UploadWithContext(_ aws.Context, input *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	u.input = input
	u.body, _ = io.ReadAll(input.Body)
	if u.err != nil {
		return nil, u.err
	}
	return &s3manager.UploadOutput{}, nil
}

func TestStorage_UploadQRImage(t *testing.T) {
	uploader := &fakeUploader{}
	storage := &Storage{uploader: uploader, bucket: "vouchers", region: "ap-southeast-1"}

	url, err := storage.UploadQRImage(context.Background(), 12, []byte("png-bytes"))
	require.NoError(t, err)

	key := aws.StringValue(uploader.input.Key)
	assert.True(t, strings.HasPrefix(key, "qrcodes/booking-12-"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "vouchers", aws.StringValue(uploader.input.Bucket))
	assert.Equal(t, "image/png", aws.StringValue(uploader.input.ContentType))
	assert.Equal(t, []byte("png-bytes"), uploader.body)
	assert.Equal(t, "https://vouchers.s3.ap-southeast-1.amazonaws.com/"+key, url)
}

func TestStorage_UploadError(t *testing.T) {
	storage := &Storage{uploader: &fakeUploader{err: errors.New("denied")}, bucket: "b", region: "r"}

	_, err := storage.UploadQRImage(context.Background(), 1, []byte("x"))
	assert.Error(t, err)
}
