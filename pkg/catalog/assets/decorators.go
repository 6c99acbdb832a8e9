package assets

type EntityDecoratorFunc func(a Asset)

func decorate(a Asset, decorators []EntityDecoratorFunc) {
	for _, decorator := range decorators {
		decorator(a)
	}
}

func Description(description string) EntityDecoratorFunc {
	return func(a Asset) {
		a.GetAttributes().Description = description
	}
}

func UserDescription(description string) EntityDecoratorFunc {
	return func(a Asset) {
		a.GetAttributes().UserDescription = description
	}
}

func DisplayName(name string) EntityDecoratorFunc {
	return func(a Asset) {
		a.GetAttributes().DisplayName = name
	}
}

func OwnerUsers(users ...string) EntityDecoratorFunc {
	return func(a Asset) {
		attrs := a.GetAttributes()
		attrs.OwnerUsers = append(attrs.OwnerUsers, users...)
	}
}

func OwnerGroups(groups ...string) EntityDecoratorFunc {
	return func(a Asset) {
		attrs := a.GetAttributes()
		attrs.OwnerGroups = append(attrs.OwnerGroups, groups...)
	}
}

func AdminUsers(users ...string) EntityDecoratorFunc {
	return func(a Asset) {
		attrs := a.GetAttributes()
		attrs.AdminUsers = append(attrs.AdminUsers, users...)
	}
}

func AdminGroups(groups ...string) EntityDecoratorFunc {
	return func(a Asset) {
		attrs := a.GetAttributes()
		attrs.AdminGroups = append(attrs.AdminGroups, groups...)
	}
}

func AdminRoles(roles ...string) EntityDecoratorFunc {
	return func(a Asset) {
		attrs := a.GetAttributes()
		attrs.AdminRoles = append(attrs.AdminRoles, roles...)
	}
}

func Certificate(status CertificateStatus, message string) EntityDecoratorFunc {
	return func(a Asset) {
		attrs := a.GetAttributes()
		attrs.CertificateStatus = status
		attrs.CertificateStatusMessage = message
	}
}

func Announcement(announcementType AnnouncementType, title, message string) EntityDecoratorFunc {
	return func(a Asset) {
		attrs := a.GetAttributes()
		attrs.AnnouncementType = announcementType
		attrs.AnnouncementTitle = title
		attrs.AnnouncementMessage = message
	}
}

// AtlanTags attaches the tags with the given ids. Use a tags.Cache to look up the id of a tag name.
func AtlanTags(tagIDs ...string) EntityDecoratorFunc {
	return func(a Asset) {
		e := a.GetEntity()
		for _, id := range tagIDs {
			e.Tags = append(e.Tags, Tag{TypeName: id, Propagate: true})
		}
	}
}

func Labels(labels ...string) EntityDecoratorFunc {
	return func(a Asset) {
		e := a.GetEntity()
		e.Labels = append(e.Labels, labels...)
	}
}
