package student

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"errors"
	"github.com/go-chi/render"
	"mime"
	"net/http"
)

// ImageField is the multipart field carrying the identification image.
const ImageField = "image"

const maxMemory = 8 << 20

// decode reads a student from a multipart form (with an optional image) or
// from a JSON body. The returned cleanup releases the form's temp files.
func decode(r *http.Request) (entity.StudentInput, *entity.Upload, func(), error) {
	var in entity.StudentInput
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			return in, nil, noop, errs.Invalidf("invalid request body")
		}
		return in, nil, noop, nil
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, nil, noop, errs.Invalidf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return in, nil, noop, errs.Invalidf("invalid multipart form")
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	in.StudentId = r.FormValue("studentId")
	in.Name = r.FormValue("name")
	in.Birthday = r.FormValue("birthday")
	in.ParentId = r.FormValue("parentId")
	if values, ok := r.MultipartForm.Value["busId"]; ok && len(values) > 0 {
		busId := values[0]
		in.BusId = &busId
	}

	file, header, err := r.FormFile(ImageField)
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, cleanup, nil
	}
	if err != nil {
		return in, nil, cleanup, errs.Invalidf("invalid image upload")
	}

	image := &entity.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
	return in, image, func() {
		_ = file.Close()
		cleanup()
	}, nil
}
