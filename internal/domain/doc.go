// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, their tasks, and tokens revoked by
// logout. It is independent of any specific infrastructure or delivery mechanism.
package domain
