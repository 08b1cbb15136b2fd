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

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

type employeeDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	EmployeeID     string             `bson:"employeeId"`
	DisplayName    string             `bson:"displayName"`
	MiniRegionName string             `bson:"miniRegionName"`
	RegionName     string             `bson:"regionName"`
	SubZoneName    string             `bson:"subZoneName"`
	ZoneName       string             `bson:"zoneName"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func (d *employeeDoc) toEntity() *entity.Employee {
	return &entity.Employee{
		ID:             d.ID.Hex(),
		EmployeeID:     d.EmployeeID,
		DisplayName:    d.DisplayName,
		MiniRegionName: d.MiniRegionName,
		RegionName:     d.RegionName,
		SubZoneName:    d.SubZoneName,
		ZoneName:       d.ZoneName,
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

// EmployeeRepo padrón de empleados sobre MongoDB.
type EmployeeRepo struct {
	coll *mongo.Collection
}

// NewEmployeeRepository construye el adaptador.
func NewEmployeeRepository(db *mongo.Database) *EmployeeRepo {
	return &EmployeeRepo{coll: db.Collection(EmployeesCollection)}
}

func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) (*entity.Employee, error) {
	doc := employeeDoc{
		EmployeeID:     e.EmployeeID,
		DisplayName:    e.DisplayName,
		MiniRegionName: e.MiniRegionName,
		RegionName:     e.RegionName,
		SubZoneName:    e.SubZoneName,
		ZoneName:       e.ZoneName,
		CreatedAt:      orNow(e.CreatedAt),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, storageErr("insert employee", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toEntity(), nil
}

func (r *EmployeeRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*entity.Employee, error) {
	var doc employeeDoc
	if err := r.coll.FindOne(ctx, bson.M{"employeeId": employeeID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, storageErr("get employee", err)
	}
	return doc.toEntity(), nil
}

// Upsert por employeeId; createdAt y los campos vacíos solo se fijan al insertar.
func (r *EmployeeRepo) Upsert(ctx context.Context, e *entity.Employee) (bool, error) {
	set := bson.D{{Key: "employeeId", Value: e.EmployeeID}}
	onInsert := bson.D{{Key: "createdAt", Value: orNow(e.CreatedAt)}}
	set, onInsert = splitEmpty(set, onInsert, "displayName", e.DisplayName, "")
	set, onInsert = splitEmpty(set, onInsert, "miniRegionName", e.MiniRegionName, "")
	set, onInsert = splitEmpty(set, onInsert, "regionName", e.RegionName, "")
	set, onInsert = splitEmpty(set, onInsert, "subZoneName", e.SubZoneName, "")
	set, onInsert = splitEmpty(set, onInsert, "zoneName", e.ZoneName, "")
	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: onInsert},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"employeeId": e.EmployeeID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, storageErr("upsert employee", err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *EmployeeRepo) List(ctx context.Context) ([]*entity.Employee, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "employeeId", Value: 1}}))
	if err != nil {
		return nil, storageErr("list employees", err)
	}
	var docs []employeeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr("list employees", err)
	}
	list := make([]*entity.Employee, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toEntity())
	}
	return list, nil
}

func (r *EmployeeRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return storageErr("delete employees", err)
	}
	return nil
}
