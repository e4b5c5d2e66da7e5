// Package docflow implements a role based document management backend.
//
// Societe users upload accounting documents, comptable users review and
// validate or reject them. Authentication is stateless JWT over a shared
// symmetric secret; logout revokes the presented token through an in
// process blacklist that every request consults. Authorization is
// enforced per URL prefix by the middleware in middleware/authware.
package docflow
