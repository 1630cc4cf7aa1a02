// internal/wizard/aliases.go
package wizard

import "listing-wizard/internal/models"

type (
	Attachment = models.Attachment
	Policy     = models.Policy
	Identity   = models.Identity
)
