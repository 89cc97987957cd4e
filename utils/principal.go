package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/entity"
)

const principalKey = "principal"

func SetPrincipal(c *gin.Context, principal *entity.Principal) {
	c.Set(principalKey, principal)
}

func PrincipalFromContext(c *gin.Context) (*entity.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*entity.Principal)
	return p, ok && p != nil
}
