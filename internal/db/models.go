package db

import "github.com/rugstoreapp/rugstore/internal/models"

type Product = models.Product
type CartLine = models.CartLine
type CartLineDetail = models.CartLineDetail
type Order = models.Order
type OrderItem = models.OrderItem
type Favorite = models.Favorite
type FavoriteDetail = models.FavoriteDetail
type Rating = models.Rating
type RatingSummary = models.RatingSummary
