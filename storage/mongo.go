package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-backend/models"
)

// MongoStore keeps one collection per entity: users, products, carts,
// orders, requests. Orders additionally carry a unique index on the
// human-readable orderId.
type MongoStore struct {
	users    *mongo.Collection
	products *mongo.Collection
	carts    *mongo.Collection
	orders   *mongo.Collection
	requests *mongo.Collection
}

func NewMongoStore(db *mongo.Database) (*MongoStore, error) {
	s := &MongoStore{
		users:    db.Collection("users"),
		products: db.Collection("products"),
		carts:    db.Collection("carts"),
		orders:   db.Collection("orders"),
		requests: db.Collection("requests"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	_, err = s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	_, err = s.carts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return s, err
}

func mapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// ----- Users -----

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	_, err := s.users.InsertOne(ctx, user)
	return mapMongoErr(err)
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}

func (s *MongoStore) findAndUpdateUser(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &user, nil
}

func (s *MongoStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone, address string) (*models.User, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if phone != "" {
		set["phone"] = phone
	}
	if address != "" {
		set["address"] = address
	}
	if len(set) == 0 {
		return s.GetUserByID(ctx, id)
	}
	return s.findAndUpdateUser(ctx, id, bson.M{"$set": set})
}

func (s *MongoStore) UpdateUser(ctx context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}
	if len(set) == 0 {
		return s.GetUserByID(ctx, id)
	}
	return s.findAndUpdateUser(ctx, id, bson.M{"$set": set})
}

func (s *MongoStore) SetUserActive(ctx context.Context, id primitive.ObjectID, active bool) (*models.User, error) {
	return s.findAndUpdateUser(ctx, id, bson.M{"$set": bson.M{"isActive": active}})
}

func (s *MongoStore) SetVendorApproval(ctx context.Context, id primitive.ObjectID, status string) (*models.User, error) {
	return s.findAndUpdateUser(ctx, id, bson.M{"$set": bson.M{"approvalStatus": status}})
}

func (s *MongoStore) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.users.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// ----- Products -----

func (s *MongoStore) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	_, err := s.products.InsertOne(ctx, product)
	return mapMongoErr(err)
}

func (s *MongoStore) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &product, nil
}

func (s *MongoStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" && filter.Category != "all" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.VendorID != nil {
		query["vendorId"] = *filter.VendorID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	cur, err := s.products.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	return products, cur.All(ctx, &products)
}

func (s *MongoStore) UpdateProductOwned(ctx context.Context, id, vendorID primitive.ObjectID, upd models.ProductUpdate) (*models.Product, error) {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.StockQuantity != nil {
		set["stockQuantity"] = *upd.StockQuantity
	}
	if upd.ImageURL != nil {
		set["imageUrl"] = *upd.ImageURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": id, "vendorId": vendorID}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &product, nil
}

func (s *MongoStore) DeleteProductOwned(ctx context.Context, id, vendorID primitive.ObjectID) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id, "vendorId": vendorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SetProductStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}, opts).Decode(&product)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &product, nil
}

// DecrementStock relies on the store's single-document atomicity: the filter
// admits the write only while stockQuantity >= qty, so two racing decrements
// of the last unit cannot both match.
func (s *MongoStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.products.UpdateOne(ctx,
		bson.M{"_id": id, "stockQuantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stockQuantity": -qty}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing product from a stock shortfall.
		if err := s.products.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return mapMongoErr(err)
		}
		return ErrInsufficientStock
	}
	return nil
}

func (s *MongoStore) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := s.products.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stockQuantity": qty}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ----- Carts -----

func (s *MongoStore) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &cart, nil
}

func (s *MongoStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	_, err := s.carts.UpdateOne(ctx, bson.M{"userId": cart.UserID},
		bson.M{"$set": bson.M{
			"items":      cart.Items,
			"totalPrice": cart.TotalPrice,
			"updatedAt":  cart.UpdatedAt,
		}},
		options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.carts.UpdateOne(ctx, bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"items":      []models.CartItem{},
			"totalPrice": 0.0,
			"updatedAt":  time.Now(),
		}})
	return err
}

// ----- Orders -----

func (s *MongoStore) CreateOrder(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	_, err := s.orders.InsertOne(ctx, order)
	return mapMongoErr(err)
}

func (s *MongoStore) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &order, nil
}

func (s *MongoStore) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, payment models.PaymentStatus) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := s.orders.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"orderStatus": status, "paymentStatus": payment}}, opts).Decode(&order)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &order, nil
}

func (s *MongoStore) listOrders(ctx context.Context, query bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.orders.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	return orders, cur.All(ctx, &orders)
}

func (s *MongoStore) ListOrdersByCustomer(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.listOrders(ctx, bson.M{"userId": userID})
}

func (s *MongoStore) ListOrdersByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.Order, error) {
	return s.listOrders(ctx, bson.M{"items.vendorId": vendorID})
}

func (s *MongoStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, bson.M{})
}

// ----- Requests -----

func (s *MongoStore) CreateRequest(ctx context.Context, req *models.Request) error {
	req.ID = primitive.NewObjectID()
	req.CreatedAt = time.Now()
	_, err := s.requests.InsertOne(ctx, req)
	return mapMongoErr(err)
}

func (s *MongoStore) GetRequest(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var req models.Request
	err := s.requests.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &req, nil
}

func (s *MongoStore) listRequests(ctx context.Context, query bson.M) ([]models.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.requests.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	requests := []models.Request{}
	return requests, cur.All(ctx, &requests)
}

func (s *MongoStore) ListRequestsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Request, error) {
	return s.listRequests(ctx, bson.M{"userId": userID})
}

func (s *MongoStore) ListRequests(ctx context.Context) ([]models.Request, error) {
	return s.listRequests(ctx, bson.M{})
}

func (s *MongoStore) AddQuote(ctx context.Context, id primitive.ObjectID, quote models.Quote) (*models.Request, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req models.Request
	err := s.requests.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"quotes": quote},
			"$set":  bson.M{"status": models.StatusQuoted},
		}, opts).Decode(&req)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &req, nil
}

func (s *MongoStore) SetRequestStatus(ctx context.Context, id primitive.ObjectID, status string, assignedVendor primitive.ObjectID) (*models.Request, error) {
	set := bson.M{"status": status}
	if !assignedVendor.IsZero() {
		set["assignedVendor"] = assignedVendor
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req models.Request
	err := s.requests.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&req)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &req, nil
}

// ----- Reporting -----

func (s *MongoStore) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}
	var err error
	if stats.TotalUsers, err = s.users.CountDocuments(ctx, bson.M{"role": models.RoleCustomer}); err != nil {
		return nil, err
	}
	if stats.TotalVendors, err = s.users.CountDocuments(ctx, bson.M{"role": models.RoleVendor}); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.products.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orders.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}

	cur, err := s.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"orderStatus": models.OrderDelivered}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}}},
	})
	if err != nil {
		return nil, err
	}
	var agg []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &agg); err != nil {
		return nil, err
	}
	if len(agg) > 0 {
		stats.Revenue = agg[0].Total
	}
	return stats, nil
}

func (s *MongoStore) VendorStats(ctx context.Context, vendorID primitive.ObjectID) (*models.VendorStats, error) {
	stats := &models.VendorStats{}
	var err error
	if stats.Products, err = s.products.CountDocuments(ctx, bson.M{"vendorId": vendorID}); err != nil {
		return nil, err
	}
	if stats.Orders, err = s.orders.CountDocuments(ctx, bson.M{"items.vendorId": vendorID}); err != nil {
		return nil, err
	}

	// Delivered revenue summed over the vendor's own line items only.
	cur, err := s.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"items.vendorId": vendorID, "orderStatus": models.OrderDelivered}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$match", Value: bson.M{"items.vendorId": vendorID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.price", "$items.quantity"}}}}}},
	})
	if err != nil {
		return nil, err
	}
	var agg []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &agg); err != nil {
		return nil, err
	}
	if len(agg) > 0 {
		stats.Revenue = agg[0].Total
	}
	return stats, nil
}

func (s *MongoStore) VendorOverview(ctx context.Context) ([]models.VendorOverview, error) {
	vendors, err := s.ListUsersByRole(ctx, models.RoleVendor)
	if err != nil {
		return nil, err
	}
	overview := []models.VendorOverview{}
	for _, v := range vendors {
		row := models.VendorOverview{VendorID: v.ID, Name: v.Name}
		if row.Products, err = s.products.CountDocuments(ctx, bson.M{"vendorId": v.ID}); err != nil {
			return nil, err
		}
		if row.Orders, err = s.orders.CountDocuments(ctx, bson.M{"items.vendorId": v.ID}); err != nil {
			return nil, err
		}
		overview = append(overview, row)
	}
	return overview, nil
}

func (s *MongoStore) RevenueReport(ctx context.Context, start, end time.Time) ([]models.RevenueBucket, error) {
	match := bson.M{"orderStatus": models.OrderDelivered}
	if !start.IsZero() && !end.IsZero() {
		match["createdAt"] = bson.M{"$gte": start, "$lte": end}
	}
	cur, err := s.orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"total": bson.M{"$sum": "$totalAmount"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, err
	}
	buckets := []models.RevenueBucket{}
	return buckets, cur.All(ctx, &buckets)
}
