package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/storage"
)

const testID = "223ea5040640813b6c8204d1e0778d30"

// fakeS3 implements the HeadObject slice of the S3 API. The embedded
// interface panics for anything else, catching unexpected calls.
type fakeS3 struct {
	s3iface.S3API
	headInput *s3.HeadObjectInput
	headErr   error
}

func (f *fakeS3) HeadObjectWithContext(_ aws.Context, in *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	f.headInput = in
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestStore_Exists_Hit(t *testing.T) {
	fake := &fakeS3{}
	store := storage.New(fake, "foobar", time.Hour)

	ok, err := store.Exists(context.Background(), testID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NotNil(t, fake.headInput)
	assert.Equal(t, "foobar", aws.StringValue(fake.headInput.Bucket))
	assert.Equal(t, "2/2/3/e/223ea5040640813b6c8204d1e0778d30.jpg", aws.StringValue(fake.headInput.Key))
}

func TestStore_Exists_NotFoundIsFalseNotError(t *testing.T) {
	fake := &fakeS3{headErr: awserr.New("NotFound", "Not Found", nil)}
	store := storage.New(fake, "foobar", time.Hour)

	ok, err := store.Exists(context.Background(), testID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Exists_OtherBackendFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"access denied", awserr.New("AccessDenied", "Access Denied", nil)},
		{"throttled", awserr.New("SlowDown", "Reduce your request rate", nil)},
		{"plain network error", errors.New("connection reset by peer")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeS3{headErr: tt.err}
			store := storage.New(fake, "foobar", time.Hour)

			_, err := store.Exists(context.Background(), testID)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestStore_SignedURL(t *testing.T) {
	// Presigning is a local operation; a real client with static
	// credentials exercises it without network access.
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String("us-east-1"),
		Credentials: credentials.NewStaticCredentials("AKID", "SECRET", ""),
	}))
	store := storage.New(s3.New(sess), "foobar", 15*time.Minute)

	url, err := store.SignedURL(context.Background(), testID)
	require.NoError(t, err)

	assert.Contains(t, url, "foobar")
	assert.Contains(t, url, "2/2/3/e/223ea5040640813b6c8204d1e0778d30.jpg")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.True(t, strings.HasPrefix(url, "https://"), "signed URL should be absolute https")
}
