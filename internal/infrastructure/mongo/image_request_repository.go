package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var _ repository.ImageRequestRepository = (*ImageRequestRepo)(nil)

// withoutContent proyección que excluye los bytes embebidos.
var withoutContent = bson.D{
	{Key: "originalFileContent", Value: 0},
	{Key: "editedFileContent", Value: 0},
}

var newestFirst = bson.D{{Key: "uploadedAt", Value: -1}, {Key: "_id", Value: -1}}

// imageRequestDoc documento tal como se lee. Los campos de contenido se leen crudos
// porque pueden ser binarios o texto base64.
type imageRequestDoc struct {
	ID                  primitive.ObjectID `bson:"_id"`
	UserID              string             `bson:"userId"`
	EmployeeID          string             `bson:"employeeId"`
	DisplayName         string             `bson:"displayName"`
	OriginalFileName    string             `bson:"originalFileName"`
	OriginalFilePath    string             `bson:"originalFilePath"`
	OriginalContentType string             `bson:"originalContentType"`
	OriginalFileContent bson.RawValue      `bson:"originalFileContent"`
	EditedFileName      string             `bson:"editedFileName"`
	EditedFilePath      string             `bson:"editedFilePath"`
	EditedContentType   string             `bson:"editedContentType"`
	EditedFileContent   bson.RawValue      `bson:"editedFileContent"`
	Status              string             `bson:"status"`
	UploadedAt          time.Time          `bson:"uploadedAt"`
	CompletedAt         *time.Time         `bson:"completedAt"`
}

func (d *imageRequestDoc) toEntity() *entity.ImageRequest {
	req := &entity.ImageRequest{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		EmployeeID:  d.EmployeeID,
		DisplayName: d.DisplayName,
		Original: entity.Asset{
			FileName:    d.OriginalFileName,
			ContentType: d.OriginalContentType,
			URL:         d.OriginalFilePath,
			Content:     decodeContent(d.OriginalFileContent),
		},
		Edited: entity.Asset{
			FileName:    d.EditedFileName,
			ContentType: d.EditedContentType,
			URL:         d.EditedFilePath,
			Content:     decodeContent(d.EditedFileContent),
		},
		Status:      d.Status,
		UploadedAt:  d.UploadedAt.UTC(),
		CompletedAt: d.CompletedAt,
	}
	if req.Status == "" {
		req.Status = req.DerivedStatus()
	}
	return req
}

// ImageRequestRepo solicitudes de imagen sobre MongoDB.
type ImageRequestRepo struct {
	coll *mongo.Collection
}

// NewImageRequestRepository construye el adaptador.
func NewImageRequestRepository(db *mongo.Database) *ImageRequestRepo {
	return &ImageRequestRepo{coll: db.Collection(RequestsCollection)}
}

// Create inserta la solicitud; el contenido se guarda como binario.
func (r *ImageRequestRepo) Create(ctx context.Context, req *entity.ImageRequest) (*entity.ImageRequest, error) {
	doc := bson.D{
		{Key: "userId", Value: req.UserID},
		{Key: "employeeId", Value: req.EmployeeID},
		{Key: "displayName", Value: req.DisplayName},
		{Key: "status", Value: req.Status},
		{Key: "uploadedAt", Value: req.UploadedAt},
	}
	doc = append(doc, assetFields("original", req.Original)...)
	if !req.Edited.IsZero() {
		doc = append(doc, assetFields("edited", req.Edited)...)
	}
	if req.CompletedAt != nil {
		doc = append(doc, bson.E{Key: "completedAt", Value: *req.CompletedAt})
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, storageErr("insert image request", err)
	}
	out := *req
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.ID = oid.Hex()
	}
	return &out, nil
}

// GetByID lee el documento completo. Un ID que no es ObjectID no existe.
func (r *ImageRequestRepo) GetByID(ctx context.Context, id string) (*entity.ImageRequest, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	var doc imageRequestDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, storageErr("get image request", err)
	}
	return doc.toEntity(), nil
}

// ListByUser solicitudes del usuario sin contenido, más recientes primero.
func (r *ImageRequestRepo) ListByUser(ctx context.Context, userID string) ([]*entity.ImageRequest, error) {
	opts := options.Find().SetSort(newestFirst).SetProjection(withoutContent)
	return r.find(ctx, "list image requests by user", bson.M{"userId": userID}, opts)
}

// List página del listado completo más el total de documentos.
func (r *ImageRequestRepo) List(ctx context.Context, opts entity.ListOptions) (*entity.ImageRequestPage, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, storageErr("count image requests", err)
	}
	find := options.Find().SetSort(newestFirst).SetSkip(int64(max(opts.Offset, 0)))
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	if !opts.IncludeContent {
		find.SetProjection(withoutContent)
	}
	items, err := r.find(ctx, "list image requests", bson.D{}, find)
	if err != nil {
		return nil, err
	}
	return &entity.ImageRequestPage{Items: items, Total: int(total)}, nil
}

// UpdateByID aplica el patch con FindOneAndUpdate. ExpectStatus entra en el filtro,
// así que dos escrituras concurrentes no pueden completar la misma solicitud.
func (r *ImageRequestRepo) UpdateByID(ctx context.Context, id string, patch entity.ImageRequestPatch) (*entity.ImageRequest, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	set := bson.D{}
	if patch.Edited != nil {
		set = append(set, assetFields("edited", *patch.Edited)...)
	}
	if patch.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *patch.Status})
	}
	if patch.CompletedAt != nil {
		set = append(set, bson.E{Key: "completedAt", Value: *patch.CompletedAt})
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	filter := bson.D{{Key: "_id", Value: oid}}
	if patch.ExpectStatus != "" {
		filter = append(filter, bson.E{Key: "status", Value: patch.ExpectStatus})
	}
	var doc imageRequestDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toEntity(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storageErr("update image request", err)
	}
	if patch.ExpectStatus == "" {
		return nil, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return nil, storageErr("check image request", err)
	}
	if n > 0 {
		return nil, domain.ErrConflict
	}
	return nil, nil
}

// DeleteAll elimina todas las solicitudes.
func (r *ImageRequestRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return storageErr("delete image requests", err)
	}
	return nil
}

func (r *ImageRequestRepo) find(ctx context.Context, op string, filter any, opts *options.FindOptions) ([]*entity.ImageRequest, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer cur.Close(ctx)
	list := make([]*entity.ImageRequest, 0)
	for cur.Next(ctx) {
		var doc imageRequestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, storageErr(op, err)
		}
		list = append(list, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return list, nil
}

// assetFields campos de un lado con prefijo original/edited.
func assetFields(prefix string, a entity.Asset) bson.D {
	return bson.D{
		{Key: prefix + "FileName", Value: a.FileName},
		{Key: prefix + "ContentType", Value: a.ContentType},
		{Key: prefix + "FilePath", Value: a.URL},
		{Key: prefix + "FileContent", Value: binary(a.Content)},
	}
}
