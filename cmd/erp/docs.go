package main

// @title Mini ERP API
// @version 1.0
// @description Products, suppliers and purchase orders with role-based access.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Login and registration

// @tag.name Users
// @tag.description Account administration (Administrator only)

// @tag.name Products
// @tag.description Product catalog and stock

// @tag.name Suppliers
// @tag.description Supplier directory

// @tag.name PurchaseOrders
// @tag.description Purchase order workflow

// @tag.name Health
// @tag.description Health check endpoints
