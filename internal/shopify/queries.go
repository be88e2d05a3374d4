package shopify

// ShopQuery fetches the shop identity (name and GID)
const ShopQuery = `
query shopIdentity {
  shop {
    id
    name
    myshopifyDomain
  }
}
`

// ProductVariantsQuery lists variants matching a search string,
// e.g. "product_id:123 AND updated_at:<='2024-10-01'"
const ProductVariantsQuery = `
query productVariants($first: Int!, $query: String!) {
  productVariants(first: $first, query: $query) {
    edges {
      node {
        id
        title
        createdAt
        product {
          title
        }
      }
    }
  }
}
`

// AccessScopesQuery lists the scopes granted to the installed app
const AccessScopesQuery = `
query accessScopes {
  currentAppInstallation {
    accessScopes {
      handle
    }
  }
}
`
