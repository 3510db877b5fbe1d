package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/webstarter/identity-gateway/internal/core/domain"
)

const (
	rolesCollection       = "roles"
	permissionsCollection = "permissions"
)

// MongoRBACRepository resolves role/permission assignments. The many-to-many
// links are ObjectID arrays: role_ids on the user document, permission_ids on
// the role document.
type MongoRBACRepository struct {
	users       *mongo.Collection
	roles       *mongo.Collection
	permissions *mongo.Collection
}

func NewRBACRepository(db *mongo.Database) *MongoRBACRepository {
	return &MongoRBACRepository{
		users:       db.Collection(usersCollection),
		roles:       db.Collection(rolesCollection),
		permissions: db.Collection(permissionsCollection),
	}
}

// EnsureIndexes creates the unique permission name index.
func (r *MongoRBACRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.permissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure permission indexes: %w", err)
	}
	return nil
}

type mongoRole struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Name          string               `bson:"name"`
	Description   string               `bson:"description,omitempty"`
	PermissionIDs []primitive.ObjectID `bson:"permission_ids,omitempty"`
}

type mongoPermission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Resource    string             `bson:"resource"`
	Action      string             `bson:"action"`
	Description string             `bson:"description,omitempty"`
}

func (mp mongoPermission) toDomain() domain.Permission {
	return domain.Permission{
		ID:          mp.ID.Hex(),
		Name:        mp.Name,
		Resource:    mp.Resource,
		Action:      mp.Action,
		Description: mp.Description,
	}
}

// UserGrants loads the user, its roles and the union of permissions across
// those roles. The union is built from a single $in query over the combined
// permission id set, so deduplication happens by identity: two permissions
// with the same name but different ids both survive.
func (r *MongoRBACRepository) UserGrants(ctx context.Context, userID string) (domain.Grants, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.Grants{}, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.Grants{}, domain.ErrUserNotFound
		}
		return domain.Grants{}, fmt.Errorf("load user grants: %w", err)
	}

	roles, permIDs, err := r.loadRoles(ctx, mu.RoleIDs)
	if err != nil {
		return domain.Grants{}, err
	}

	permissions, err := r.loadPermissions(ctx, permIDs)
	if err != nil {
		return domain.Grants{}, err
	}

	return domain.Grants{Roles: roles, Permissions: permissions}, nil
}

// RolePermissions returns the permissions attached to one role.
func (r *MongoRBACRepository) RolePermissions(ctx context.Context, roleID string) ([]domain.Permission, error) {
	oid, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return nil, domain.ErrRoleNotFound
	}

	var mr mongoRole
	if err := r.roles.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("load role: %w", err)
	}

	return r.loadPermissions(ctx, mr.PermissionIDs)
}

// AssignRole adds the role id to the user's assignment array ($addToSet keeps
// the operation idempotent).
func (r *MongoRBACRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	roleOID, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return domain.ErrRoleNotFound
	}

	if err := r.roles.FindOne(ctx, bson.M{"_id": roleOID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrRoleNotFound
		}
		return fmt.Errorf("check role: %w", err)
	}

	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userOID},
		bson.M{"$addToSet": bson.M{"role_ids": roleOID}})
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RemoveRole pulls the role id from the user's assignment array.
func (r *MongoRBACRepository) RemoveRole(ctx context.Context, userID, roleID string) error {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	roleOID, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return domain.ErrRoleNotFound
	}

	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userOID},
		bson.M{"$pull": bson.M{"role_ids": roleOID}})
	if err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoRBACRepository) loadRoles(ctx context.Context, ids []primitive.ObjectID) ([]domain.Role, []primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	cursor, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, nil, fmt.Errorf("load roles: %w", err)
	}
	defer cursor.Close(ctx)

	var roles []domain.Role
	permSet := make(map[primitive.ObjectID]struct{})
	var permIDs []primitive.ObjectID
	for cursor.Next(ctx) {
		var mr mongoRole
		if err := cursor.Decode(&mr); err != nil {
			return nil, nil, fmt.Errorf("decode role: %w", err)
		}
		roles = append(roles, domain.Role{ID: mr.ID.Hex(), Name: mr.Name, Description: mr.Description})
		for _, pid := range mr.PermissionIDs {
			if _, ok := permSet[pid]; ok {
				continue
			}
			permSet[pid] = struct{}{}
			permIDs = append(permIDs, pid)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, nil, fmt.Errorf("load roles: %w", err)
	}
	return roles, permIDs, nil
}

func (r *MongoRBACRepository) loadPermissions(ctx context.Context, ids []primitive.ObjectID) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.permissions.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	defer cursor.Close(ctx)

	var permissions []domain.Permission
	for cursor.Next(ctx) {
		var mp mongoPermission
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode permission: %w", err)
		}
		permissions = append(permissions, mp.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	return permissions, nil
}
