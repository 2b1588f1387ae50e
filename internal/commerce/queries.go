package commerce

const productsQuery = `query GetProducts($first: Int!) {
  products(first: $first, sortKey: TITLE) {
    edges {
      node {
        id
        title
        variants(first: 1) {
          edges {
            node {
              id
              price
            }
          }
        }
      }
    }
  }
}`

const ordersQuery = `query GetOrders($first: Int!) {
  orders(first: $first, reverse: true) {
    nodes {
      id
      name
      createdAt
      currentTotalPriceSet {
        shopMoney {
          amount
          currencyCode
        }
      }
      lineItems(first: 250) {
        nodes {
          title
          originalTotalSet {
            shopMoney {
              amount
              currencyCode
            }
          }
        }
      }
    }
  }
}`

const draftOrderCreateMutation = `mutation CreateDraftOrder($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const draftOrderCompleteMutation = `mutation CompleteDraftOrder($id: ID!) {
  draftOrderComplete(id: $id) {
    draftOrder {
      order {
        id
        name
        createdAt
        currentTotalPriceSet {
          shopMoney {
            amount
            currencyCode
          }
        }
      }
    }
    userErrors {
      field
      message
    }
  }
}`
