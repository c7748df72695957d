package events

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	minio "github.com/minio/minio-go/v7"

	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/schemas"
)

const FILE_BUCKET = "files"

// Upload stores a multipart upload content-addressed by its sha256 hash
type Upload struct{}

func (e *Upload) Auth() bool          { return true }
func (e *Upload) Params() interface{} { return nil }

func (e *Upload) Run(ctx *Context) schemas.ReturnData {
	if global.MinIOClient == nil {
		return schemas.NewError("File storage is not enabled.")
	}
	if len(ctx.Files) == 0 {
		return schemas.NewError("Missing or invalid parameter: File")
	}

	for _, content := range ctx.Files {
		sum := sha256.Sum256(content)
		fileHash := hex.EncodeToString(sum[:])

		_, err := global.MinIOClient.PutObject(
			global.Context, FILE_BUCKET, fileHash,
			bytes.NewReader(content), int64(len(content)),
			minio.PutObjectOptions{ContentType: "application/octet-stream"},
		)
		if err != nil {
			errors.HandleInternalError("minio_put", err.Error())
			return schemas.NewError("Internal error.")
		}
		return schemas.NewOK().Add("file_hash", fileHash)
	}
	return schemas.NewError("Missing or invalid parameter: File")
}

// CheckFileExists reports whether a content hash is already stored
type CheckFileExists struct {
	params schemas.CheckFileExistsSchema
}

func (e *CheckFileExists) Auth() bool          { return false }
func (e *CheckFileExists) Params() interface{} { return &e.params }

func (e *CheckFileExists) Run(ctx *Context) schemas.ReturnData {
	if global.MinIOClient == nil {
		return schemas.NewError("File storage is not enabled.")
	}
	_, err := global.MinIOClient.StatObject(global.Context, FILE_BUCKET, e.params.FileHash, minio.StatObjectOptions{})
	if err != nil {
		return schemas.NewOK().Add("exists", false)
	}
	return schemas.NewOK().Add("exists", true)
}
