package commerce

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/orderdesk/internal/catalog"
	"github.com/imrishuroy/orderdesk/internal/orders"
)

const opProducts = "products"

type productsResponse struct {
	Products *struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type productNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID    string `json:"id"`
				Price string `json:"price"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

// ListProducts loads the first `first` products sorted by title together with
// their default variant. A product without variants gets a zero price and no
// variant ID instead of failing the load.
func (c *Client) ListProducts(ctx context.Context, first int) ([]orders.Product, error) {
	var resp productsResponse
	if err := c.Do(ctx, opProducts, productsQuery, map[string]any{"first": first}, &resp); err != nil {
		return nil, err
	}
	if resp.Products == nil {
		return nil, malformed(opProducts, "missing products")
	}

	out := make([]orders.Product, 0, len(resp.Products.Edges))
	for i, e := range resp.Products.Edges {
		p, err := e.Node.toProduct()
		if err != nil {
			return nil, malformed(opProducts, "product %d: %v", i, err)
		}
		out = append(out, p)
	}
	catalog.SortByName(out)
	return out, nil
}

func (n productNode) toProduct() (orders.Product, error) {
	if n.ID == "" {
		return orders.Product{}, errMissing("id")
	}
	p := orders.Product{ID: n.ID, Name: n.Title, Price: decimal.Zero}
	if len(n.Variants.Edges) == 0 {
		return p, nil
	}
	v := n.Variants.Edges[0].Node
	if v.ID == "" {
		return orders.Product{}, errMissing("variant id")
	}
	p.VariantID = v.ID
	if v.Price != "" {
		price, err := decimal.NewFromString(v.Price)
		if err != nil {
			return orders.Product{}, err
		}
		p.Price = price
	}
	return p, nil
}

// DefaultPageSize is the product page read when no limit is given.
const DefaultPageSize = 20

// Catalog adapts the client to catalog.Loader.
type Catalog struct {
	Client   *Client
	PageSize int
}

// Load implements catalog.Loader. The platform always pages, so an unbounded
// load reads one page of PageSize products.
func (c Catalog) Load(ctx context.Context, limit int) ([]orders.Product, error) {
	if limit <= 0 {
		limit = c.PageSize
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return c.Client.ListProducts(ctx, limit)
}
