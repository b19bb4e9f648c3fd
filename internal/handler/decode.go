package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/nmoroz/shopfile/internal/domain/product"
)

// errMalformedBody covers request bodies that are not valid JSON
// objects of the expected shape.
var errMalformedBody = errors.New("malformed JSON body")

// decodeDraft parses a product creation body, tracking which keys were
// actually present so that a zero price or stock can be told apart
// from an omitted one. Status is only required for upserts; plain
// creation overrides it anyway.
func decodeDraft(data []byte, requireStatus bool) (product.Draft, error) {
	var (
		draft     product.Draft
		hasPrice  bool
		hasStock  bool
		hasStatus bool
	)

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "title":
			v, err := d.Str()
			draft.Title = v
			return err
		case "description":
			v, err := d.Str()
			draft.Description = v
			return err
		case "code":
			v, err := d.Str()
			draft.Code = v
			return err
		case "price":
			v, err := decodePrice(d)
			if err != nil {
				return err
			}
			draft.Price = v
			hasPrice = true
			return nil
		case "status":
			v, err := d.Bool()
			draft.Status = v
			hasStatus = true
			return err
		case "stock":
			v, err := d.Int()
			draft.Stock = v
			hasStock = true
			return err
		case "category":
			v, err := d.Str()
			draft.Category = v
			return err
		case "thumbnails":
			v, err := decodeThumbnails(d)
			draft.Thumbnails = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return product.Draft{}, errors.Wrap(errMalformedBody, err.Error())
	}

	switch {
	case !hasPrice:
		return product.Draft{}, &product.MissingFieldError{Field: "price"}
	case !hasStock:
		return product.Draft{}, &product.MissingFieldError{Field: "stock"}
	case requireStatus && !hasStatus:
		return product.Draft{}, &product.MissingFieldError{Field: "status"}
	}
	return draft, nil
}

// decodePatch parses a partial product update. A body naming "id" is
// rejected outright; ids are assigned once by the store.
func decodePatch(data []byte) (product.Patch, error) {
	var patch product.Patch

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			return product.ErrImmutableID
		case "title":
			v, err := d.Str()
			patch.Title = &v
			return err
		case "description":
			v, err := d.Str()
			patch.Description = &v
			return err
		case "code":
			v, err := d.Str()
			patch.Code = &v
			return err
		case "price":
			v, err := decodePrice(d)
			if err != nil {
				return err
			}
			patch.Price = &v
			return nil
		case "status":
			v, err := d.Bool()
			patch.Status = &v
			return err
		case "stock":
			v, err := d.Int()
			patch.Stock = &v
			return err
		case "category":
			v, err := d.Str()
			patch.Category = &v
			return err
		case "thumbnails":
			v, err := decodeThumbnails(d)
			patch.Thumbnails = &v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		if errors.Is(err, product.ErrImmutableID) {
			return product.Patch{}, product.ErrImmutableID
		}
		return product.Patch{}, errors.Wrap(errMalformedBody, err.Error())
	}
	return patch, nil
}

// decodePrice accepts both bare and quoted JSON numbers, preserving
// decimal precision.
func decodePrice(d *jx.Decoder) (decimal.Decimal, error) {
	raw, err := d.Raw()
	if err != nil {
		return decimal.Decimal{}, err
	}
	var v decimal.Decimal
	if err := v.UnmarshalJSON(raw); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "price")
	}
	return v, nil
}

func decodeThumbnails(d *jx.Decoder) ([]string, error) {
	out := []string{}
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

// respondDecodeError maps body decoding failures: domain validation
// errors keep their store-error mapping, anything else is a plain 400.
func respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var missingErr *product.MissingFieldError
	if errors.Is(err, product.ErrImmutableID) || errors.As(err, &missingErr) {
		respondStoreError(w, r, err)
		return
	}
	respondError(w, http.StatusBadRequest, errMalformedBody.Error())
}
