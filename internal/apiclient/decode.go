package apiclient

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/rossa-autoparts/storefront/internal/domain/product"
)

// The API wraps every payload in a {"data": ...} envelope; listings add a
// sibling "pagination" object.

func decodeListPage(data []byte) (*product.ListPage, error) {
	var page product.ListPage
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "data":
			return d.Arr(func(d *jx.Decoder) error {
				p, err := decodeProduct(d)
				if err != nil {
					return err
				}
				page.Items = append(page.Items, p)
				return nil
			})
		case "pagination":
			return d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "total":
					page.Pagination.Total, err = d.Int()
				case "pages":
					page.Pagination.Pages, err = d.Int()
				case "page":
					page.Pagination.Page, err = d.Int()
				default:
					return d.Skip()
				}
				return err
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func decodeCategories(data []byte) ([]product.Category, error) {
	var cats []product.Category
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "data" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			var c product.Category
			if err := d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "_id":
					c.ID, err = d.Str()
				case "name":
					c.Name, err = d.Str()
				default:
					return d.Skip()
				}
				return err
			}); err != nil {
				return err
			}
			cats = append(cats, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func decodeProductEnvelope(data []byte) (*product.Product, error) {
	var p product.Product
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "data" {
			return d.Skip()
		}
		var err error
		p, err = decodeProduct(d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "_id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "price":
			n, nerr := d.Num()
			if nerr != nil {
				return nerr
			}
			p.Price, err = decimal.NewFromString(n.String())
		case "stock":
			p.Stock, err = d.Int()
		case "brand":
			p.Brand, err = optStr(d)
		case "partNumber":
			p.PartNumber, err = optStr(d)
		case "description":
			p.Description, err = optStr(d)
		case "category":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "_id":
					p.Category.ID, err = d.Str()
				case "name":
					p.Category.Name, err = d.Str()
				default:
					return d.Skip()
				}
				return err
			})
		case "images":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Arr(func(d *jx.Decoder) error {
				var img product.Image
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "url":
						img.URL, err = optStr(d)
					case "alt":
						img.Alt, err = optStr(d)
					default:
						return d.Skip()
					}
					return err
				}); err != nil {
					return err
				}
				p.Images = append(p.Images, img)
				return nil
			})
		case "compatible":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Arr(func(d *jx.Decoder) error {
				s, err := d.Str()
				if err != nil {
					return err
				}
				// Unknown tags from the API are ignored rather than failing
				// the whole product.
				if m, ok := product.ParseModel(s); ok {
					p.Compatible = append(p.Compatible, m)
				}
				return nil
			})
		default:
			return d.Skip()
		}
		return err
	})
	return p, err
}

// optStr decodes a string that may be JSON null.
func optStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}
