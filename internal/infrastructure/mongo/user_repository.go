package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID  string             `bson:"employeeId"`
	DisplayName string             `bson:"displayName"`
	Role        string             `bson:"role"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:          d.ID.Hex(),
		EmployeeID:  d.EmployeeID,
		DisplayName: d.DisplayName,
		Role:        entity.NormalizeRole(d.Role),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// UserRepo cuentas sobre MongoDB.
type UserRepo struct {
	coll *mongo.Collection
}

// NewUserRepository construye el adaptador.
func NewUserRepository(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(UsersCollection)}
}

// Create inserta la cuenta si no existe otra con el mismo employeeId y devuelve la vigente.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "employeeId", Value: u.EmployeeID},
		{Key: "displayName", Value: u.DisplayName},
		{Key: "role", Value: entity.NormalizeRole(u.Role)},
		{Key: "createdAt", Value: orNow(u.CreatedAt)},
	}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc userDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"employeeId": u.EmployeeID}, update, opts).Decode(&doc); err != nil {
		return nil, storageErr("insert user", err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, "get user by id", bson.M{"_id": oid})
}

func (r *UserRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*entity.User, error) {
	return r.findOne(ctx, "get user by employee id", bson.M{"employeeId": employeeID})
}

// Upsert actualiza nombre y rol por employeeId. Los campos vacíos solo se
// escriben al insertar, con rol user por defecto.
func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) (bool, error) {
	set := bson.D{{Key: "employeeId", Value: u.EmployeeID}}
	onInsert := bson.D{{Key: "createdAt", Value: orNow(u.CreatedAt)}}
	set, onInsert = splitEmpty(set, onInsert, "displayName", u.DisplayName, "")
	set, onInsert = splitEmpty(set, onInsert, "role", u.Role, entity.RoleUser)
	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: onInsert},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"employeeId": u.EmployeeID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, storageErr("upsert user", err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "employeeId", Value: 1}}))
	if err != nil {
		return nil, storageErr("list users", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("list users", err)
	}
	list := make([]*entity.User, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toEntity())
	}
	return list, nil
}

func (r *UserRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return storageErr("delete users", err)
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, op string, filter any) (*entity.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return doc.toEntity(), nil
}
