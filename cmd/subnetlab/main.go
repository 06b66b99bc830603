package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ipv4ConvertRequest struct {
	Text   string `json:"text" binding:"required"`
	Format string `json:"format"`
}

type ipv4SubnetRequest struct {
	CIDR    string `json:"cidr"`
	Address string `json:"address"`
	Prefix  *int   `json:"prefix"`
}

type ipv6SubnetRequest struct {
	CIDR string `json:"cidr" binding:"required"`
}

type ipv6CanonicalRequest struct {
	Address string `json:"address" binding:"required"`
}

type eui64Request struct {
	MAC    string `json:"mac" binding:"required"`
	Prefix string `json:"prefix"`
}

type vlsmRequest struct {
	Base         string            `json:"base" binding:"required"`
	Requirements []VLSMRequirement `json:"requirements"`
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := buildRouter(cfg)
	log.Printf("subnetlab listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func buildRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	r.POST("/api/ipv4/convert", func(c *gin.Context) {
		var req ipv4ConvertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		v, err := parseIPv4(req.Text, req.Format)
		if err != nil {
			badRequest(c, err)
			return
		}
		res := ipv4Conversions(v)
		respond(c, res, "subnetlab_ipv4", func() [][]string { return ipv4ConvertRows(res) })
	})

	r.POST("/api/ipv4/subnet", func(c *gin.Context) {
		var req ipv4SubnetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		addr, prefix, err := resolveIPv4Input(req)
		if err != nil {
			badRequest(c, err)
			return
		}
		res, err := ipv4Subnet(addr, prefix)
		if err != nil {
			badRequest(c, err)
			return
		}
		respond(c, res, "subnetlab_ipv4_subnet", func() [][]string { return ipv4SubnetRows(res) })
	})

	r.POST("/api/ipv6/subnet", func(c *gin.Context) {
		var req ipv6SubnetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		addr, prefix, err := parseIPv6CIDR(req.CIDR)
		if err != nil {
			badRequest(c, err)
			return
		}
		res, err := ipv6Subnet(addr, prefix)
		if err != nil {
			badRequest(c, err)
			return
		}
		respond(c, res, "subnetlab_ipv6_subnet", func() [][]string { return ipv6SubnetRows(res) })
	})

	r.POST("/api/ipv6/canonical", func(c *gin.Context) {
		var req ipv6CanonicalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := canonicalizeIPv6(req.Address)
		if err != nil {
			badRequest(c, err)
			return
		}
		respond(c, res, "subnetlab_ipv6", func() [][]string { return ipv6CanonicalRows(res) })
	})

	r.POST("/api/eui64", func(c *gin.Context) {
		var req eui64Request
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		res, err := deriveEUI64(req.MAC, req.Prefix)
		if err != nil {
			badRequest(c, err)
			return
		}
		respond(c, res, "subnetlab_eui64", func() [][]string { return eui64Rows(res) })
	})

	r.POST("/api/vlsm", func(c *gin.Context) {
		var req vlsmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if len(req.Requirements) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one requirement is needed"})
			return
		}
		if len(req.Requirements) > cfg.MaxRequirements {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("too many requirements, the limit is %d", cfg.MaxRequirements),
			})
			return
		}
		for i := range req.Requirements {
			if req.Requirements[i].ID == "" {
				req.Requirements[i].ID = "req-" + strconv.Itoa(i+1)
			}
			if req.Requirements[i].Name == "" {
				req.Requirements[i].Name = req.Requirements[i].ID
			}
		}
		plan, err := planVLSM(req.Base, req.Requirements)
		if err != nil {
			badRequest(c, err)
			return
		}
		respondPlan(c, plan)
	})

	return r
}

func resolveIPv4Input(req ipv4SubnetRequest) (uint32, int, error) {
	if req.CIDR != "" {
		return parseIPv4CIDR(req.CIDR)
	}
	addr, err := parseDottedIPv4(req.Address)
	if err != nil {
		return 0, 0, err
	}
	if req.Prefix == nil {
		return 0, 0, fmt.Errorf("%w: prefix length is required", errInvalidPrefix)
	}
	if *req.Prefix < 0 || *req.Prefix > 32 {
		return 0, 0, fmt.Errorf("%w: /%d for ipv4", errInvalidPrefix, *req.Prefix)
	}
	return addr, *req.Prefix, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
