package docflow

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// ParseUploadForm reads the multipart request body into an UploadInput.
// The router context exposes the raw body only, so the form is decoded
// here with the boundary from the Content-Type header.
func ParseUploadForm(c router.Context) (UploadInput, error) {
	var in UploadInput

	contentType := c.Header("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return in, errors.New("Requête multipart attendue", errors.CategoryBadInput).
			WithTextCode(textCodeValidation).
			WithCode(errors.CodeBadRequest)
	}

	boundary, ok := params["boundary"]
	if !ok {
		return in, errors.New("Limite multipart absente", errors.CategoryBadInput).
			WithTextCode(textCodeValidation).
			WithCode(errors.CodeBadRequest)
	}

	reader := multipart.NewReader(bytes.NewReader(c.Body()), boundary)

	var fileContent []byte
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return in, errors.Wrap(err, errors.CategoryBadInput, "corps multipart invalide").
				WithTextCode(textCodeValidation).
				WithCode(errors.CodeBadRequest)
		}

		if part.FileName() != "" {
			in.FileName = part.FileName()
			fileContent, err = io.ReadAll(io.LimitReader(part, MaxUploadSize+1))
			part.Close()
			if err != nil {
				return in, errors.Wrap(err, ErrFileRead.Category, ErrFileRead.Message).
					WithTextCode(ErrFileRead.TextCode).
					WithCode(ErrFileRead.Code)
			}
			continue
		}

		value, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return in, errors.Wrap(err, errors.CategoryBadInput, "champ multipart illisible").
				WithTextCode(textCodeValidation).
				WithCode(errors.CodeBadRequest)
		}

		assignUploadField(&in, part.FormName(), string(value))
	}

	if len(fileContent) == 0 {
		return in, ErrEmptyFile
	}
	if int64(len(fileContent)) > MaxUploadSize {
		return in, ErrFileTooLarge
	}

	in.File = bytes.NewReader(fileContent)

	return in, nil
}

func assignUploadField(in *UploadInput, name, value string) {
	switch name {
	case "numeroPiece":
		in.NumeroPiece = value
	case "typeDocument":
		in.TypeDocument = value
	case "categorieComptable":
		in.CategorieComptable = value
	case "datePiece":
		if t, err := time.Parse("2006-01-02", value); err == nil {
			in.DatePiece = &t
		}
	case "montant":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			in.Montant = f
		}
	case "fournisseur":
		in.Fournisseur = value
	case "exerciceComptable":
		if n, err := strconv.Atoi(value); err == nil {
			in.ExerciceComptable = n
		}
	}
}
